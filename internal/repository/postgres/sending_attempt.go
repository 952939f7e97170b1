package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

type sendingAttemptRepository struct {
	BaseRepository
}

func NewSendingAttemptRepository(base BaseRepository) repository.SendingAttemptRepository {
	return &sendingAttemptRepository{base}
}

func (r *sendingAttemptRepository) Create(ctx context.Context, attempt *model.SendingAttempt) error {
	query := `
		INSERT INTO sending_attempts (id, created_at, status, answer, recipient_email, mailing_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	attempt.ID = uuid.New()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.CreatedAt,
		attempt.Status,
		attempt.Answer,
		attempt.RecipientEmail,
		attempt.MailingID,
	)
	return mapError("create sending attempt", err)
}

func (r *sendingAttemptRepository) ListByMailing(ctx context.Context, mailingID uuid.UUID) ([]*model.SendingAttempt, error) {
	query := `
		SELECT a.id, a.created_at, a.status, a.answer, a.recipient_email, a.mailing_id, m.owner_id
		FROM sending_attempts a
		JOIN mailings m ON m.id = a.mailing_id
		WHERE a.mailing_id = $1
		ORDER BY a.created_at
	`
	var attempts []*model.SendingAttempt
	if err := r.db.SelectContext(ctx, &attempts, query, mailingID); err != nil {
		return nil, mapError("list sending attempts", err)
	}
	return attempts, nil
}

func (r *sendingAttemptRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.SendingAttempt, error) {
	query := `
		SELECT a.id, a.created_at, a.status, a.answer, a.recipient_email, a.mailing_id, m.owner_id
		FROM sending_attempts a
		JOIN mailings m ON m.id = a.mailing_id
		WHERE ($1::uuid IS NULL OR m.owner_id = $1 OR ($3 AND m.owner_id IS NULL))
		AND (COALESCE($2, '') = '' OR a.status = $2)
		ORDER BY a.created_at DESC
	`
	var attempts []*model.SendingAttempt
	if err := r.db.SelectContext(ctx, &attempts, query, filter.OwnerID, filter.Search, filter.IncludeOrphans); err != nil {
		return nil, mapError("list sending attempts", err)
	}
	return attempts, nil
}
