package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

type recipientRepository struct {
	s *Store
}

func (r *recipientRepository) Create(ctx context.Context, recipient *model.Recipient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(uuid.Nil, recipient.Email) {
		return duplicate("create recipient", "recipients_email_key")
	}
	recipient.ID = uuid.New()
	recipient.CreatedAt = time.Now()
	recipient.UpdatedAt = recipient.CreatedAt
	recipient.OwnerID = copyID(recipient.OwnerID)
	r.s.recipients[recipient.ID] = *recipient
	return nil
}

func (r *recipientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	recipient, ok := r.s.recipients[id]
	if !ok {
		return nil, notFound("get recipient")
	}
	return &recipient, nil
}

func (r *recipientRepository) Update(ctx context.Context, recipient *model.Recipient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.recipients[recipient.ID]
	if !ok {
		return notFound("update recipient")
	}
	if r.emailTaken(recipient.ID, recipient.Email) {
		return duplicate("update recipient", "recipients_email_key")
	}
	existing.Email = recipient.Email
	existing.FullName = recipient.FullName
	existing.Comment = recipient.Comment
	existing.UpdatedAt = time.Now()
	recipient.UpdatedAt = existing.UpdatedAt
	r.s.recipients[recipient.ID] = existing
	return nil
}

func (r *recipientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipients[id]; !ok {
		return notFound("delete recipient")
	}
	delete(r.s.recipients, id)
	for mailingID, ids := range r.s.mailingRecipients {
		r.s.mailingRecipients[mailingID] = without(ids, id)
	}
	return nil
}

func (r *recipientRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var recipients []*model.Recipient
	for _, rec := range r.s.recipients {
		if !ownedBy(rec.OwnerID, filter) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Email), search) &&
			!strings.Contains(strings.ToLower(rec.FullName), search) {
			continue
		}
		rec := rec
		recipients = append(recipients, &rec)
	}
	sort.Slice(recipients, func(i, j int) bool { return recipients[i].Email < recipients[j].Email })
	return recipients, nil
}

// emailTaken must be called with the lock held.
func (r *recipientRepository) emailTaken(self uuid.UUID, email string) bool {
	for id, rec := range r.s.recipients {
		if id != self && strings.EqualFold(rec.Email, email) {
			return true
		}
	}
	return false
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
