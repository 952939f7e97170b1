package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

type messageRepository struct {
	s *Store
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	message.ID = uuid.New()
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	message.OwnerID = copyID(message.OwnerID)
	r.s.messages[message.ID] = *message
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	message, ok := r.s.messages[id]
	if !ok {
		return nil, notFound("get message")
	}
	return &message, nil
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.messages[message.ID]
	if !ok {
		return notFound("update message")
	}
	existing.Subject = message.Subject
	existing.Body = message.Body
	existing.UpdatedAt = time.Now()
	message.UpdatedAt = existing.UpdatedAt
	r.s.messages[message.ID] = existing
	return nil
}

// Delete cascades to every mailing that uses the message.
func (r *messageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[id]; !ok {
		return notFound("delete message")
	}
	delete(r.s.messages, id)
	for mailingID, m := range r.s.mailings {
		if m.MessageID == id {
			r.s.deleteMailing(mailingID)
		}
	}
	return nil
}

func (r *messageRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var messages []*model.Message
	for _, m := range r.s.messages {
		if !ownedBy(m.OwnerID, filter) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Subject), search) {
			continue
		}
		m := m
		messages = append(messages, &m)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].Subject < messages[j].Subject })
	return messages, nil
}
