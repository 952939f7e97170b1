package mailing

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

type MailingServicer interface {
	CreateMailing(ctx context.Context, actor *access.Actor, req *model.MailingRequest) (*model.Mailing, error)
	GetMailing(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.MailingDetail, error)
	UpdateMailing(ctx context.Context, actor *access.Actor, id uuid.UUID, req *model.MailingRequest) (*model.Mailing, error)
	DeleteMailing(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	ListMailings(ctx context.Context, actor *access.Actor, status string) ([]*model.Mailing, error)
	DisableMailing(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Mailing, error)
	ListAttempts(ctx context.Context, actor *access.Actor, id uuid.UUID) ([]*model.SendingAttempt, error)
	Authorized(ctx context.Context, actor *access.Actor, id uuid.UUID, permission string) (*model.Mailing, error)
}

type Service struct {
	mailings   repository.MailingRepository
	messages   repository.MessageRepository
	recipients repository.RecipientRepository
	attempts   repository.SendingAttemptRepository
	tracker    *StatusTracker
	validator  validator.Validator
}

func NewService(
	mailings repository.MailingRepository,
	messages repository.MessageRepository,
	recipients repository.RecipientRepository,
	attempts repository.SendingAttemptRepository,
	tracker *StatusTracker,
	v validator.Validator,
) *Service {
	return &Service{
		mailings:   mailings,
		messages:   messages,
		recipients: recipients,
		attempts:   attempts,
		tracker:    tracker,
		validator:  v,
	}
}

func (s *Service) CreateMailing(ctx context.Context, actor *access.Actor, req *model.MailingRequest) (*model.Mailing, error) {
	if err := access.AuthorizeCreate(actor, model.PermAddMailing); err != nil {
		return nil, err
	}
	if err := s.checkRequest(ctx, actor, req); err != nil {
		return nil, err
	}

	mailing := &model.Mailing{
		Owned:        model.Owned{OwnerID: &actor.ID},
		Status:       model.MailingStatusCreated,
		MessageID:    req.MessageID,
		RecipientIDs: dedupe(req.RecipientIDs),
	}
	if err := s.mailings.Create(ctx, mailing); err != nil {
		return nil, service.RepoError("mailing", err)
	}
	return mailing, nil
}

// GetMailing returns the mailing with its message and recipients in send order.
func (s *Service) GetMailing(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.MailingDetail, error) {
	mailing, err := s.Authorized(ctx, actor, id, model.PermViewMailing)
	if err != nil {
		return nil, err
	}

	message, err := s.messages.Get(ctx, mailing.MessageID)
	if err != nil {
		return nil, service.RepoError("message", err)
	}
	recipients, err := s.mailings.ListRecipients(ctx, mailing.ID)
	if err != nil {
		return nil, service.RepoError("mailing", err)
	}
	return &model.MailingDetail{Mailing: mailing, Message: message, Recipients: recipients}, nil
}

func (s *Service) UpdateMailing(ctx context.Context, actor *access.Actor, id uuid.UUID, req *model.MailingRequest) (*model.Mailing, error) {
	mailing, err := s.Authorized(ctx, actor, id, model.PermChangeMailing)
	if err != nil {
		return nil, err
	}
	if err := s.checkRequest(ctx, actor, req); err != nil {
		return nil, err
	}

	mailing.MessageID = req.MessageID
	mailing.RecipientIDs = dedupe(req.RecipientIDs)
	if err := s.mailings.Update(ctx, mailing); err != nil {
		return nil, service.RepoError("mailing", err)
	}
	return mailing, nil
}

func (s *Service) DeleteMailing(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	if _, err := s.Authorized(ctx, actor, id, model.PermDeleteMailing); err != nil {
		return err
	}
	return service.RepoError("mailing", s.mailings.Delete(ctx, id))
}

// ListMailings optionally narrows by status.
func (s *Service) ListMailings(ctx context.Context, actor *access.Actor, status string) ([]*model.Mailing, error) {
	if status != "" && !model.MailingStatus(status).Valid() {
		return nil, errors.BadRequest(fmt.Sprintf("unknown mailing status %q", status), nil)
	}
	filter := access.ListScope(actor, model.PermViewMailing)
	filter.Search = status
	mailings, err := s.mailings.List(ctx, filter)
	if err != nil {
		return nil, service.RepoError("mailing", err)
	}
	return mailings, nil
}

// DisableMailing stops a created or running mailing. A running dispatch
// notices before its next send.
func (s *Service) DisableMailing(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Mailing, error) {
	mailing, err := s.Authorized(ctx, actor, id, model.PermDisableMailing)
	if err != nil {
		return nil, err
	}

	switch mailing.Status {
	case model.MailingStatusCreated, model.MailingStatusLaunched:
	default:
		return nil, errors.BadRequest(fmt.Sprintf("mailing in status %q cannot be disabled", mailing.Status), nil)
	}

	if err := s.tracker.SetStatus(ctx, mailing, model.MailingStatusDisabled); err != nil {
		return nil, service.RepoError("mailing", err)
	}
	return mailing, nil
}

func (s *Service) ListAttempts(ctx context.Context, actor *access.Actor, id uuid.UUID) ([]*model.SendingAttempt, error) {
	mailing, err := s.Authorized(ctx, actor, id, model.PermViewSendingAttempt)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByMailing(ctx, mailing.ID)
	if err != nil {
		return nil, service.RepoError("sending attempt", err)
	}
	return attempts, nil
}

// Authorized loads a mailing and checks actor against permission.
func (s *Service) Authorized(ctx context.Context, actor *access.Actor, id uuid.UUID, permission string) (*model.Mailing, error) {
	mailing, err := s.mailings.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError("mailing", err)
	}
	if err := access.Authorize(actor, mailing, permission); err != nil {
		return nil, err
	}
	return mailing, nil
}

// checkRequest validates req and makes sure the actor may use every referenced record.
func (s *Service) checkRequest(ctx context.Context, actor *access.Actor, req *model.MailingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return service.Invalid(err)
	}

	message, err := s.messages.Get(ctx, req.MessageID)
	if err != nil {
		return referenceError("message", req.MessageID, err)
	}
	if err := access.Authorize(actor, message, model.PermViewMessage); err != nil {
		return err
	}

	for _, id := range req.RecipientIDs {
		recipient, err := s.recipients.Get(ctx, id)
		if err != nil {
			return referenceError("recipient", id, err)
		}
		if err := access.Authorize(actor, recipient, model.PermViewRecipient); err != nil {
			return err
		}
	}
	return nil
}

func referenceError(resource string, id uuid.UUID, err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.BadRequest(fmt.Sprintf("%s %s does not exist", resource, id), err)
	}
	return service.RepoError(resource, err)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
