package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/email"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/internal/service/rbac"
	"github.com/jwalitptl/client-connect/pkg/auth"
	"github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/security"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

const (
	tokenBytes       = 16
	resetTokenExpiry = 1 * time.Hour
)

var errInvalidCredentials = errors.BadRequest("invalid email or password", nil)

type Service struct {
	users     repository.UserRepository
	rbac      *rbac.Service
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	mailer    email.Service
	validator validator.Validator
	now       func() time.Time
}

func NewService(users repository.UserRepository, rbacSvc *rbac.Service, jwtSvc auth.JWTService,
	hasher security.PasswordHasher, mailer email.Service, v validator.Validator) *Service {
	return &Service{
		users:     users,
		rbac:      rbacSvc,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		mailer:    mailer,
		validator: v,
		now:       time.Now,
	}
}

// Register creates an inactive account and emails its activation link.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.BadRequest(err.Error(), err)
	}
	token, err := security.GenerateToken(tokenBytes)
	if err != nil {
		return nil, errors.Internal(err)
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     req.Username,
		PasswordHash: hash,
		IsActive:     false,
		Token:        &token,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, service.RepoError("user with this email or username", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, token); err != nil {
		// Drop the unconfirmable account so the address can register again.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			err = stderrors.Join(err, delErr)
		}
		return nil, errors.Internal(err)
	}
	return user, nil
}

// ConfirmEmail activates the account owning token. The token is kept so a
// second visit reports the account as already active.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (user *model.User, alreadyActive bool, err error) {
	user, err = s.users.GetByToken(ctx, token)
	if err != nil {
		return nil, false, service.RepoError("user", err)
	}
	if user.IsActive {
		return user, true, nil
	}

	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, false, service.RepoError("user", err)
	}
	return user, false, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, service.RepoError("user", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, errors.BadRequest("account is not active, confirm your email first", nil)
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, service.RepoError("user", err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return token, nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, req *model.PasswordResetRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return service.Invalid(err)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.BadRequest("no user is registered with this email", err)
		}
		return service.RepoError("user", err)
	}

	token, err := security.GenerateToken(tokenBytes)
	if err != nil {
		return errors.Internal(err)
	}
	until := s.now().Add(resetTokenExpiry)
	user.ResetToken = &token
	user.ResetTokenUntil = &until
	if err := s.users.Update(ctx, user); err != nil {
		return service.RepoError("user", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, req *model.NewPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return service.Invalid(err)
	}

	invalid := errors.BadRequest("invalid or expired reset token", nil)
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return invalid
		}
		return service.RepoError("user", err)
	}
	if user.ResetTokenUntil == nil || s.now().After(*user.ResetTokenUntil) {
		return invalid
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return errors.BadRequest(err.Error(), err)
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenUntil = nil
	if err := s.users.Update(ctx, user); err != nil {
		return service.RepoError("user", err)
	}
	return nil
}

// Authenticate turns a bearer token into the acting user.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, *access.Actor, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, nil, errors.Unauthorized(err)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, nil, errors.Unauthorized(err)
		}
		return nil, nil, service.RepoError("user", err)
	}
	if !user.IsActive {
		return nil, nil, errors.Unauthorized(fmt.Errorf("user %s is not active", user.ID))
	}

	actor, err := s.rbac.LoadActor(ctx, user)
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	return user, actor, nil
}
