// Package memory implements the repository interfaces in process memory.
// Cascade rules mirror the postgres schema.
package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

// Store holds every table behind one lock.
type Store struct {
	mu sync.RWMutex

	users      map[uuid.UUID]model.User
	roles      map[uuid.UUID]model.Role
	perms      map[uuid.UUID]model.Permission
	rolePerms  map[uuid.UUID]map[uuid.UUID]struct{}
	userRoles  map[uuid.UUID]map[uuid.UUID]struct{}
	recipients map[uuid.UUID]model.Recipient
	messages   map[uuid.UUID]model.Message
	mailings   map[uuid.UUID]model.Mailing
	// mailing id -> ordered recipient ids
	mailingRecipients map[uuid.UUID][]uuid.UUID
	attempts          []model.SendingAttempt
}

func NewStore() *Store {
	return &Store{
		users:             make(map[uuid.UUID]model.User),
		roles:             make(map[uuid.UUID]model.Role),
		perms:             make(map[uuid.UUID]model.Permission),
		rolePerms:         make(map[uuid.UUID]map[uuid.UUID]struct{}),
		userRoles:         make(map[uuid.UUID]map[uuid.UUID]struct{}),
		recipients:        make(map[uuid.UUID]model.Recipient),
		messages:          make(map[uuid.UUID]model.Message),
		mailings:          make(map[uuid.UUID]model.Mailing),
		mailingRecipients: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *Store) Users() repository.UserRepository { return &userRepository{s} }
func (s *Store) RBAC() repository.RBACRepository { return &rbacRepository{s} }
func (s *Store) Recipients() repository.RecipientRepository { return &recipientRepository{s} }
func (s *Store) Messages() repository.MessageRepository { return &messageRepository{s} }
func (s *Store) Mailings() repository.MailingRepository { return &mailingRepository{s} }
func (s *Store) Attempts() repository.SendingAttemptRepository { return &sendingAttemptRepository{s} }

func notFound(op string) error {
	return fmt.Errorf("failed to %s: %w", op, repository.ErrNotFound)
}

func duplicate(op, field string) error {
	return fmt.Errorf("failed to %s: %s: %w", op, field, repository.ErrDuplicate)
}

func ownedBy(owner *uuid.UUID, filter model.ListFilter) bool {
	if filter.OwnerID == nil {
		return true
	}
	if owner == nil {
		return filter.IncludeOrphans
	}
	return *owner == *filter.OwnerID
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
