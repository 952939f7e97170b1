package message

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

type MessageServicer interface {
	CreateMessage(ctx context.Context, actor *access.Actor, req *model.MessageRequest) (*model.Message, error)
	GetMessage(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Message, error)
	UpdateMessage(ctx context.Context, actor *access.Actor, id uuid.UUID, req *model.MessageRequest) (*model.Message, error)
	DeleteMessage(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	ListMessages(ctx context.Context, actor *access.Actor, search string) ([]*model.Message, error)
}

type Service struct {
	repo      repository.MessageRepository
	validator validator.Validator
}

func NewService(repo repository.MessageRepository, v validator.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

func (s *Service) CreateMessage(ctx context.Context, actor *access.Actor, req *model.MessageRequest) (*model.Message, error) {
	if err := access.AuthorizeCreate(actor, model.PermAddMessage); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}

	message := &model.Message{
		Owned:   model.Owned{OwnerID: &actor.ID},
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, service.RepoError("message", err)
	}
	return message, nil
}

func (s *Service) GetMessage(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Message, error) {
	return s.load(ctx, actor, id, model.PermViewMessage)
}

func (s *Service) UpdateMessage(ctx context.Context, actor *access.Actor, id uuid.UUID, req *model.MessageRequest) (*model.Message, error) {
	message, err := s.load(ctx, actor, id, model.PermChangeMessage)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, service.Invalid(err)
	}

	message.Subject = req.Subject
	message.Body = req.Body
	if err := s.repo.Update(ctx, message); err != nil {
		return nil, service.RepoError("message", err)
	}
	return message, nil
}

// DeleteMessage also removes every mailing that sends it.
func (s *Service) DeleteMessage(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	if _, err := s.load(ctx, actor, id, model.PermDeleteMessage); err != nil {
		return err
	}
	return service.RepoError("message", s.repo.Delete(ctx, id))
}

func (s *Service) ListMessages(ctx context.Context, actor *access.Actor, search string) ([]*model.Message, error) {
	filter := access.ListScope(actor, model.PermViewMessage)
	filter.Search = search
	messages, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, service.RepoError("message", err)
	}
	return messages, nil
}

func (s *Service) load(ctx context.Context, actor *access.Actor, id uuid.UUID, permission string) (*model.Message, error) {
	message, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError("message", err)
	}
	if err := access.Authorize(actor, message, permission); err != nil {
		return nil, err
	}
	return message, nil
}
