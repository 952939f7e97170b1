package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (id, subject, body, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	message.ID = uuid.New()
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.Subject,
		message.Body,
		message.OwnerID,
		message.CreatedAt,
		message.UpdatedAt,
	)
	return mapError("create message", err)
}

func (r *messageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
		SELECT id, subject, body, owner_id, created_at, updated_at
		FROM messages
		WHERE id = $1
	`
	var message model.Message
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		return nil, mapError("get message", err)
	}
	return &message, nil
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	query := `
		UPDATE messages
		SET subject = $1, body = $2, updated_at = $3
		WHERE id = $4
	`
	message.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, message.Subject, message.Body, message.UpdatedAt, message.ID)
	if err != nil {
		return mapError("update message", err)
	}
	return expectRows("update message", result)
}

func (r *messageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return mapError("delete message", err)
	}
	return expectRows("delete message", result)
}

func (r *messageRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Message, error) {
	query := `
		SELECT id, subject, body, owner_id, created_at, updated_at
		FROM messages
		WHERE ($1::uuid IS NULL OR owner_id = $1 OR ($3 AND owner_id IS NULL))
		AND (COALESCE($2, '') = '' OR subject ILIKE '%' || $2 || '%')
		ORDER BY subject
	`
	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, filter.OwnerID, filter.Search, filter.IncludeOrphans); err != nil {
		return nil, mapError("list messages", err)
	}
	return messages, nil
}
