package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

type sendingAttemptRepository struct {
	s *Store
}

func (r *sendingAttemptRepository) Create(ctx context.Context, attempt *model.SendingAttempt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	mailing, ok := r.s.mailings[attempt.MailingID]
	if !ok {
		return notFound("create sending attempt")
	}
	attempt.ID = uuid.New()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	attempt.OwnerID = copyID(mailing.OwnerID)
	r.s.attempts = append(r.s.attempts, *attempt)
	return nil
}

func (r *sendingAttemptRepository) ListByMailing(ctx context.Context, mailingID uuid.UUID) ([]*model.SendingAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var attempts []*model.SendingAttempt
	for _, a := range r.s.attempts {
		if a.MailingID == mailingID {
			attempts = append(attempts, r.withOwner(a))
		}
	}
	return attempts, nil
}

// List returns newest first.
func (r *sendingAttemptRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.SendingAttempt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var attempts []*model.SendingAttempt
	for i := len(r.s.attempts) - 1; i >= 0; i-- {
		a := r.withOwner(r.s.attempts[i])
		if !ownedBy(a.OwnerID, filter) {
			continue
		}
		if filter.Search != "" && string(a.Status) != filter.Search {
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// withOwner resolves the owner from the mailing, as the postgres join does.
func (r *sendingAttemptRepository) withOwner(a model.SendingAttempt) *model.SendingAttempt {
	a.OwnerID = copyID(r.s.mailings[a.MailingID].OwnerID)
	return &a
}
