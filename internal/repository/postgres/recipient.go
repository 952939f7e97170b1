package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

type recipientRepository struct {
	BaseRepository
}

func NewRecipientRepository(base BaseRepository) repository.RecipientRepository {
	return &recipientRepository{base}
}

func (r *recipientRepository) Create(ctx context.Context, recipient *model.Recipient) error {
	query := `
		INSERT INTO recipients (id, email, full_name, comment, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	recipient.ID = uuid.New()
	recipient.CreatedAt = time.Now()
	recipient.UpdatedAt = recipient.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		recipient.ID,
		recipient.Email,
		recipient.FullName,
		recipient.Comment,
		recipient.OwnerID,
		recipient.CreatedAt,
		recipient.UpdatedAt,
	)
	return mapError("create recipient", err)
}

func (r *recipientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Recipient, error) {
	query := `
		SELECT id, email, full_name, comment, owner_id, created_at, updated_at
		FROM recipients
		WHERE id = $1
	`
	var recipient model.Recipient
	if err := r.db.GetContext(ctx, &recipient, query, id); err != nil {
		return nil, mapError("get recipient", err)
	}
	return &recipient, nil
}

func (r *recipientRepository) Update(ctx context.Context, recipient *model.Recipient) error {
	query := `
		UPDATE recipients
		SET email = $1, full_name = $2, comment = $3, updated_at = $4
		WHERE id = $5
	`
	recipient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		recipient.Email,
		recipient.FullName,
		recipient.Comment,
		recipient.UpdatedAt,
		recipient.ID,
	)
	if err != nil {
		return mapError("update recipient", err)
	}
	return expectRows("update recipient", result)
}

func (r *recipientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipients WHERE id = $1`, id)
	if err != nil {
		return mapError("delete recipient", err)
	}
	return expectRows("delete recipient", result)
}

func (r *recipientRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Recipient, error) {
	query := `
		SELECT id, email, full_name, comment, owner_id, created_at, updated_at
		FROM recipients
		WHERE ($1::uuid IS NULL OR owner_id = $1 OR ($3 AND owner_id IS NULL))
		AND (COALESCE($2, '') = '' OR email ILIKE '%' || $2 || '%' OR full_name ILIKE '%' || $2 || '%')
		ORDER BY email
	`
	var recipients []*model.Recipient
	if err := r.db.SelectContext(ctx, &recipients, query, filter.OwnerID, filter.Search, filter.IncludeOrphans); err != nil {
		return nil, mapError("list recipients", err)
	}
	return recipients, nil
}
