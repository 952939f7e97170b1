package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByToken(ctx context.Context, token string) (*model.User, error)
		GetByResetToken(ctx context.Context, token string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.User, error)
	}

	RBACRepository interface {
		CreateRole(ctx context.Context, role *model.Role) error
		GetRoleByName(ctx context.Context, name string) (*model.Role, error)
		DeleteAllRoles(ctx context.Context) error
		EnsurePermission(ctx context.Context, name string) (*model.Permission, error)
		AddPermissionToRole(ctx context.Context, roleID, permissionID uuid.UUID) error
		AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error
		GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.Role, error)
		GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	}

	RecipientRepository interface {
		Create(ctx context.Context, recipient *model.Recipient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Recipient, error)
		Update(ctx context.Context, recipient *model.Recipient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter model.ListFilter) ([]*model.Recipient, error)
	}

	MessageRepository interface {
		Create(ctx context.Context, message *model.Message) error
		Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
		Update(ctx context.Context, message *model.Message) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter model.ListFilter) ([]*model.Message, error)
	}

	// MailingRepository stores mailings and their ordered recipient sets.
	MailingRepository interface {
		Create(ctx context.Context, mailing *model.Mailing) error
		Get(ctx context.Context, id uuid.UUID) (*model.Mailing, error)
		Update(ctx context.Context, mailing *model.Mailing) error
		// UpdateStatus persists status and the timestamp pair only.
		UpdateStatus(ctx context.Context, mailing *model.Mailing) error
		GetStatus(ctx context.Context, id uuid.UUID) (model.MailingStatus, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filter model.ListFilter) ([]*model.Mailing, error)
		// ListRecipients returns recipients in insertion order.
		ListRecipients(ctx context.Context, mailingID uuid.UUID) ([]*model.Recipient, error)
	}

	// SendingAttemptRepository is append-only.
	SendingAttemptRepository interface {
		Create(ctx context.Context, attempt *model.SendingAttempt) error
		ListByMailing(ctx context.Context, mailingID uuid.UUID) ([]*model.SendingAttempt, error)
		List(ctx context.Context, filter model.ListFilter) ([]*model.SendingAttempt, error)
	}
)
