package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

type UserServicer interface {
	GetUser(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *access.Actor, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor *access.Actor) error
	ListUsers(ctx context.Context, actor *access.Actor) ([]*model.User, error)
	ActivateUser(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.User, error)
	DeactivateUser(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.User, error)
}

type Service struct {
	repo      repository.UserRepository
	validator validator.Validator
}

func NewService(repo repository.UserRepository, v validator.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

// GetUser lets users read themselves; reading others needs can_list_users.
func (s *Service) GetUser(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.User, error) {
	if actor == nil || (actor.ID != id && !actor.HasPermission(model.PermListUsers)) {
		return nil, errors.Forbidden("you do not have permission to view this user")
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError("user", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor *access.Actor, req *model.UpdateUserRequest) (*model.User, error) {
	if actor == nil {
		return nil, errors.Unauthorized(nil)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}
	user, err := s.GetUser(ctx, actor, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Country != nil {
		user.Country = req.Country
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, service.RepoError("user with this email or username", err)
	}
	return user, nil
}

// DeleteUser removes the actor's own account. Owned recipients, messages
// and mailings survive without an owner.
func (s *Service) DeleteUser(ctx context.Context, actor *access.Actor) error {
	if actor == nil {
		return errors.Unauthorized(nil)
	}
	return service.RepoError("user", s.repo.Delete(ctx, actor.ID))
}

func (s *Service) ListUsers(ctx context.Context, actor *access.Actor) ([]*model.User, error) {
	if !actor.HasPermission(model.PermListUsers) {
		return nil, errors.Forbidden("you do not have permission to list users")
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, service.RepoError("user", err)
	}
	return users, nil
}

func (s *Service) ActivateUser(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.User, error) {
	return s.setActive(ctx, actor, id, true, model.PermActivateUser)
}

func (s *Service) DeactivateUser(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.User, error) {
	return s.setActive(ctx, actor, id, false, model.PermDeactivateUser)
}

func (s *Service) setActive(ctx context.Context, actor *access.Actor, id uuid.UUID, active bool, permission string) (*model.User, error) {
	if !actor.HasPermission(permission) {
		return nil, errors.Forbidden("you do not have permission to change this user")
	}
	if actor.ID == id {
		return nil, errors.BadRequest("you cannot change your own active status", nil)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError("user", err)
	}
	if user.IsActive == active {
		return user, nil
	}
	user.IsActive = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, service.RepoError("user", err)
	}
	return user, nil
}
