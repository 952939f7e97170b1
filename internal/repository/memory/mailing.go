package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

type mailingRepository struct {
	s *Store
}

func (r *mailingRepository) Create(ctx context.Context, mailing *model.Mailing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs("create mailing", mailing); err != nil {
		return err
	}
	mailing.ID = uuid.New()
	mailing.CreatedAt = time.Now()
	mailing.UpdatedAt = mailing.CreatedAt
	if mailing.Status == "" {
		mailing.Status = model.MailingStatusCreated
	}
	stored := *mailing
	stored.OwnerID = copyID(mailing.OwnerID)
	stored.RecipientIDs = nil
	r.s.mailings[mailing.ID] = stored
	r.s.mailingRecipients[mailing.ID] = dedupe(mailing.RecipientIDs)
	return nil
}

func (r *mailingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Mailing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	mailing, ok := r.s.mailings[id]
	if !ok {
		return nil, notFound("get mailing")
	}
	mailing.RecipientIDs = append([]uuid.UUID(nil), r.s.mailingRecipients[id]...)
	return &mailing, nil
}

func (r *mailingRepository) Update(ctx context.Context, mailing *model.Mailing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.mailings[mailing.ID]
	if !ok {
		return notFound("update mailing")
	}
	if err := r.checkRefs("update mailing", mailing); err != nil {
		return err
	}
	existing.MessageID = mailing.MessageID
	existing.UpdatedAt = time.Now()
	mailing.UpdatedAt = existing.UpdatedAt
	r.s.mailings[mailing.ID] = existing
	r.s.mailingRecipients[mailing.ID] = dedupe(mailing.RecipientIDs)
	return nil
}

func (r *mailingRepository) UpdateStatus(ctx context.Context, mailing *model.Mailing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.mailings[mailing.ID]
	if !ok {
		return notFound("update mailing status")
	}
	existing.Status = mailing.Status
	existing.StartTime = mailing.StartTime
	existing.EndTime = mailing.EndTime
	existing.UpdatedAt = time.Now()
	mailing.UpdatedAt = existing.UpdatedAt
	r.s.mailings[mailing.ID] = existing
	return nil
}

func (r *mailingRepository) GetStatus(ctx context.Context, id uuid.UUID) (model.MailingStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	mailing, ok := r.s.mailings[id]
	if !ok {
		return "", notFound("get mailing status")
	}
	return mailing.Status, nil
}

func (r *mailingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.mailings[id]; !ok {
		return notFound("delete mailing")
	}
	r.s.deleteMailing(id)
	return nil
}

func (r *mailingRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Mailing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var mailings []*model.Mailing
	for id, m := range r.s.mailings {
		if !ownedBy(m.OwnerID, filter) {
			continue
		}
		if filter.Search != "" && string(m.Status) != filter.Search {
			continue
		}
		m := m
		m.RecipientIDs = append([]uuid.UUID(nil), r.s.mailingRecipients[id]...)
		mailings = append(mailings, &m)
	}
	sort.Slice(mailings, func(i, j int) bool { return mailings[i].CreatedAt.After(mailings[j].CreatedAt) })
	return mailings, nil
}

func (r *mailingRepository) ListRecipients(ctx context.Context, mailingID uuid.UUID) ([]*model.Recipient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var recipients []*model.Recipient
	for _, id := range r.s.mailingRecipients[mailingID] {
		if rec, ok := r.s.recipients[id]; ok {
			recipients = append(recipients, &rec)
		}
	}
	return recipients, nil
}

// checkRefs must be called with the lock held.
func (r *mailingRepository) checkRefs(op string, mailing *model.Mailing) error {
	if _, ok := r.s.messages[mailing.MessageID]; !ok {
		return notFound(op)
	}
	for _, id := range mailing.RecipientIDs {
		if _, ok := r.s.recipients[id]; !ok {
			return notFound(op)
		}
	}
	return nil
}

// deleteMailing must be called with the lock held.
func (s *Store) deleteMailing(id uuid.UUID) {
	delete(s.mailings, id)
	delete(s.mailingRecipients, id)
	kept := s.attempts[:0]
	for _, a := range s.attempts {
		if a.MailingID != id {
			kept = append(kept, a)
		}
	}
	s.attempts = kept
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
