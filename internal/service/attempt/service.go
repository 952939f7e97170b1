package attempt

import (
	"context"
	"fmt"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/pkg/errors"
)

type AttemptServicer interface {
	ListAttempts(ctx context.Context, actor *access.Actor, status string) ([]*model.SendingAttempt, error)
}

type Service struct {
	repo repository.SendingAttemptRepository
}

func NewService(repo repository.SendingAttemptRepository) *Service {
	return &Service{repo: repo}
}

// ListAttempts returns attempts newest first, optionally narrowed by status.
// Actors without view_sendingattempt only see attempts of their own mailings.
func (s *Service) ListAttempts(ctx context.Context, actor *access.Actor, status string) ([]*model.SendingAttempt, error) {
	switch model.AttemptStatus(status) {
	case "", model.AttemptStatusSuccess, model.AttemptStatusFail:
	default:
		return nil, errors.BadRequest(fmt.Sprintf("unknown attempt status %q", status), nil)
	}

	filter := access.ListScope(actor, model.PermViewSendingAttempt)
	filter.Search = status
	attempts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, service.RepoError("sending attempt", err)
	}
	return attempts, nil
}
