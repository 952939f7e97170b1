package mailing

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/logger"
	"github.com/jwalitptl/client-connect/pkg/messaging"
)

// StatusTracker owns mailing lifecycle transitions and their timestamps.
type StatusTracker struct {
	repo      repository.MailingRepository
	publisher messaging.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewStatusTracker accepts a nil publisher when events are disabled.
func NewStatusTracker(repo repository.MailingRepository, publisher messaging.Publisher, log *logger.Logger) *StatusTracker {
	if log == nil {
		log = logger.Nop()
	}
	return &StatusTracker{
		repo:      repo,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// SetStatus persists status on mailing. Launch stamps start_time once,
// done stamps end_time.
func (t *StatusTracker) SetStatus(ctx context.Context, mailing *model.Mailing, status model.MailingStatus) error {
	if !status.Valid() {
		return errors.BadRequest(fmt.Sprintf("unknown mailing status %q", status), nil)
	}

	now := t.now()
	switch status {
	case model.MailingStatusLaunched:
		if mailing.StartTime == nil {
			mailing.StartTime = &now
		}
	case model.MailingStatusDone:
		mailing.EndTime = &now
	}
	mailing.Status = status

	if err := t.repo.UpdateStatus(ctx, mailing); err != nil {
		return fmt.Errorf("failed to update mailing status: %w", err)
	}

	t.publish(ctx, mailing)
	return nil
}

// CurrentStatus reads the persisted status, seeing changes made by other requests.
func (t *StatusTracker) CurrentStatus(ctx context.Context, mailing *model.Mailing) (model.MailingStatus, error) {
	status, err := t.repo.GetStatus(ctx, mailing.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get mailing status: %w", err)
	}
	return status, nil
}

func (t *StatusTracker) publish(ctx context.Context, mailing *model.Mailing) {
	if t.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"mailing_id": mailing.ID,
		"status":     mailing.Status,
		"start_time": mailing.StartTime,
		"end_time":   mailing.EndTime,
	}
	if err := t.publisher.Publish(ctx, "mailing."+string(mailing.Status), payload); err != nil {
		t.logger.Error(err, "failed to publish mailing event", "mailing_id", mailing.ID.String())
	}
}
