package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

const userColumns = `
	id, email, username, first_name, last_name, phone, country, password_hash,
	is_active, is_superuser, token, reset_token, reset_token_until, last_login_at,
	created_at, updated_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (
			:id, :email, :username, :first_name, :last_name, :phone, :country, :password_hash,
			:is_active, :is_superuser, :token, :reset_token, :reset_token_until, :last_login_at,
			:created_at, :updated_at
		)
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, user)
	return mapError("create user", err)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	return r.getBy(ctx, "token", token)
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.getBy(ctx, "reset_token", token)
}

func (r *userRepository) getBy(ctx context.Context, column string, value interface{}) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		return nil, mapError("get user", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			email = :email, username = :username, first_name = :first_name, last_name = :last_name,
			phone = :phone, country = :country, password_hash = :password_hash,
			is_active = :is_active, is_superuser = :is_superuser, token = :token,
			reset_token = :reset_token, reset_token_until = :reset_token_until,
			last_login_at = :last_login_at, updated_at = :updated_at
		WHERE id = :id
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return mapError("update user", err)
	}
	return expectRows("update user", result)
}

// Delete removes the user; owned records keep living with owner_id set to NULL.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError("delete user", err)
	}
	return expectRows("delete user", result)
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email`
	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, mapError("list users", err)
	}
	return users, nil
}
