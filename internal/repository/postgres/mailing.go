package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

const mailingColumns = `id, start_time, end_time, status, message_id, owner_id, created_at, updated_at`

type mailingRepository struct {
	BaseRepository
}

func NewMailingRepository(base BaseRepository) repository.MailingRepository {
	return &mailingRepository{base}
}

func (r *mailingRepository) Create(ctx context.Context, mailing *model.Mailing) error {
	mailing.ID = uuid.New()
	mailing.CreatedAt = time.Now()
	mailing.UpdatedAt = mailing.CreatedAt
	if mailing.Status == "" {
		mailing.Status = model.MailingStatusCreated
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO mailings (` + mailingColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			mailing.ID,
			mailing.StartTime,
			mailing.EndTime,
			mailing.Status,
			mailing.MessageID,
			mailing.OwnerID,
			mailing.CreatedAt,
			mailing.UpdatedAt,
		)
		if err != nil {
			return mapError("create mailing", err)
		}
		return insertRecipients(ctx, tx, mailing.ID, mailing.RecipientIDs)
	})
}

func (r *mailingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Mailing, error) {
	var mailing model.Mailing
	query := `SELECT ` + mailingColumns + ` FROM mailings WHERE id = $1`
	if err := r.db.GetContext(ctx, &mailing, query, id); err != nil {
		return nil, mapError("get mailing", err)
	}

	ids, err := r.recipientIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	mailing.RecipientIDs = ids
	return &mailing, nil
}

// Update replaces the message reference and the full recipient set.
func (r *mailingRepository) Update(ctx context.Context, mailing *model.Mailing) error {
	mailing.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE mailings
			SET message_id = $1, updated_at = $2
			WHERE id = $3
		`
		result, err := tx.ExecContext(ctx, query, mailing.MessageID, mailing.UpdatedAt, mailing.ID)
		if err != nil {
			return mapError("update mailing", err)
		}
		if err := expectRows("update mailing", result); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM mailing_recipients WHERE mailing_id = $1`, mailing.ID); err != nil {
			return mapError("clear mailing recipients", err)
		}
		return insertRecipients(ctx, tx, mailing.ID, mailing.RecipientIDs)
	})
}

func (r *mailingRepository) UpdateStatus(ctx context.Context, mailing *model.Mailing) error {
	query := `
		UPDATE mailings
		SET status = $1, start_time = $2, end_time = $3, updated_at = $4
		WHERE id = $5
	`
	mailing.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		mailing.Status,
		mailing.StartTime,
		mailing.EndTime,
		mailing.UpdatedAt,
		mailing.ID,
	)
	if err != nil {
		return mapError("update mailing status", err)
	}
	return expectRows("update mailing status", result)
}

func (r *mailingRepository) GetStatus(ctx context.Context, id uuid.UUID) (model.MailingStatus, error) {
	var status model.MailingStatus
	if err := r.db.GetContext(ctx, &status, `SELECT status FROM mailings WHERE id = $1`, id); err != nil {
		return "", mapError("get mailing status", err)
	}
	return status, nil
}

func (r *mailingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mailings WHERE id = $1`, id)
	if err != nil {
		return mapError("delete mailing", err)
	}
	return expectRows("delete mailing", result)
}

func (r *mailingRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Mailing, error) {
	query := `
		SELECT ` + mailingColumns + `
		FROM mailings
		WHERE ($1::uuid IS NULL OR owner_id = $1 OR ($3 AND owner_id IS NULL))
		AND (COALESCE($2, '') = '' OR status = $2)
		ORDER BY created_at DESC
	`
	var mailings []*model.Mailing
	if err := r.db.SelectContext(ctx, &mailings, query, filter.OwnerID, filter.Search, filter.IncludeOrphans); err != nil {
		return nil, mapError("list mailings", err)
	}
	return mailings, nil
}

func (r *mailingRepository) ListRecipients(ctx context.Context, mailingID uuid.UUID) ([]*model.Recipient, error) {
	query := `
		SELECT r.id, r.email, r.full_name, r.comment, r.owner_id, r.created_at, r.updated_at
		FROM recipients r
		JOIN mailing_recipients mr ON mr.recipient_id = r.id
		WHERE mr.mailing_id = $1
		ORDER BY mr.position
	`
	var recipients []*model.Recipient
	if err := r.db.SelectContext(ctx, &recipients, query, mailingID); err != nil {
		return nil, mapError("list mailing recipients", err)
	}
	return recipients, nil
}

func (r *mailingRepository) recipientIDs(ctx context.Context, mailingID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT recipient_id FROM mailing_recipients WHERE mailing_id = $1 ORDER BY position`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, mailingID); err != nil {
		return nil, mapError("get mailing recipient ids", err)
	}
	return ids, nil
}

func insertRecipients(ctx context.Context, tx *sqlx.Tx, mailingID uuid.UUID, recipientIDs []uuid.UUID) error {
	query := `
		INSERT INTO mailing_recipients (mailing_id, recipient_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, recipientID := range recipientIDs {
		if _, err := tx.ExecContext(ctx, query, mailingID, recipientID); err != nil {
			return fmt.Errorf("failed to add recipient %s to mailing: %w", recipientID, mapError("insert mailing recipient", err))
		}
	}
	return nil
}
