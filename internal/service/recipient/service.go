package recipient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

type RecipientServicer interface {
	CreateRecipient(ctx context.Context, actor *access.Actor, req *model.RecipientRequest) (*model.Recipient, error)
	GetRecipient(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Recipient, error)
	UpdateRecipient(ctx context.Context, actor *access.Actor, id uuid.UUID, req *model.RecipientRequest) (*model.Recipient, error)
	DeleteRecipient(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	ListRecipients(ctx context.Context, actor *access.Actor, search string) ([]*model.Recipient, error)
}

type Service struct {
	repo      repository.RecipientRepository
	validator validator.Validator
}

func NewService(repo repository.RecipientRepository, v validator.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

func (s *Service) CreateRecipient(ctx context.Context, actor *access.Actor, req *model.RecipientRequest) (*model.Recipient, error) {
	if err := access.AuthorizeCreate(actor, model.PermAddRecipient); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}

	recipient := &model.Recipient{
		Owned:    model.Owned{OwnerID: &actor.ID},
		Email:    req.Email,
		FullName: req.FullName,
		Comment:  req.Comment,
	}
	if err := s.repo.Create(ctx, recipient); err != nil {
		return nil, service.RepoError("recipient with this email", err)
	}
	return recipient, nil
}

func (s *Service) GetRecipient(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Recipient, error) {
	return s.load(ctx, actor, id, model.PermViewRecipient)
}

func (s *Service) UpdateRecipient(ctx context.Context, actor *access.Actor, id uuid.UUID, req *model.RecipientRequest) (*model.Recipient, error) {
	recipient, err := s.load(ctx, actor, id, model.PermChangeRecipient)
	if err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}

	recipient.Email = req.Email
	recipient.FullName = req.FullName
	recipient.Comment = req.Comment
	if err := s.repo.Update(ctx, recipient); err != nil {
		return nil, service.RepoError("recipient with this email", err)
	}
	return recipient, nil
}

func (s *Service) DeleteRecipient(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	if _, err := s.load(ctx, actor, id, model.PermDeleteRecipient); err != nil {
		return err
	}
	return service.RepoError("recipient", s.repo.Delete(ctx, id))
}

func (s *Service) ListRecipients(ctx context.Context, actor *access.Actor, search string) ([]*model.Recipient, error) {
	filter := access.ListScope(actor, model.PermViewRecipient)
	filter.Search = search
	recipients, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, service.RepoError("recipient", err)
	}
	return recipients, nil
}

func (s *Service) load(ctx context.Context, actor *access.Actor, id uuid.UUID, permission string) (*model.Recipient, error) {
	recipient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError("recipient", err)
	}
	if err := access.Authorize(actor, recipient, permission); err != nil {
		return nil, err
	}
	return recipient, nil
}
