// Package dispatch runs the send loop for a mailing.
package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jwalitptl/client-connect/internal/email"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service"
	"github.com/jwalitptl/client-connect/internal/service/mailing"
	"github.com/jwalitptl/client-connect/pkg/logger"
	"github.com/jwalitptl/client-connect/pkg/metrics"
)

var (
	// ErrNoRecipients means the mailing was left untouched because it has nobody to send to.
	ErrNoRecipients = stderrors.New("mailing has no recipients")
	// ErrMailingDisabled is returned when dispatch is asked for a disabled mailing.
	ErrMailingDisabled = stderrors.New("mailing is disabled")
)

// Result summarises one dispatch cycle.
type Result struct {
	MailingID string              `json:"mailing_id"`
	Attempted int                 `json:"attempted"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Aborted   bool                `json:"aborted"`
	Status    model.MailingStatus `json:"status"`
}

type Dispatcher struct {
	mailings  repository.MailingRepository
	messages  repository.MessageRepository
	attempts  repository.SendingAttemptRepository
	transport email.Transport
	tracker   *mailing.StatusTracker
	from      string
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

type Config struct {
	Mailings  repository.MailingRepository
	Messages  repository.MessageRepository
	Attempts  repository.SendingAttemptRepository
	Transport email.Transport
	Tracker   *mailing.StatusTracker
	From      string
	Logger    *logger.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Dispatcher{
		mailings:  cfg.Mailings,
		messages:  cfg.Messages,
		attempts:  cfg.Attempts,
		transport: cfg.Transport,
		tracker:   cfg.Tracker,
		from:      cfg.From,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// Dispatch sends the mailing's message to each recipient in order and
// records one attempt per send. Transport failures are recorded, not
// returned. Setting the mailing to disabled stops the loop before the
// next recipient.
func (d *Dispatcher) Dispatch(ctx context.Context, m *model.Mailing) (*Result, error) {
	started := time.Now()
	log := d.logger.WithFields(map[string]interface{}{"mailing_id": m.ID.String()})

	message, err := d.messages.Get(ctx, m.MessageID)
	if err != nil {
		d.countCycle("error")
		return nil, service.RepoError("message", err)
	}

	recipients, err := d.mailings.ListRecipients(ctx, m.ID)
	if err != nil {
		d.countCycle("error")
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	if len(recipients) == 0 {
		log.Warn("recipient list is empty, nothing to send")
		d.countCycle("empty")
		return nil, ErrNoRecipients
	}

	if m.Status == model.MailingStatusDisabled {
		d.countCycle("disabled")
		return nil, ErrMailingDisabled
	}

	if err := d.tracker.SetStatus(ctx, m, model.MailingStatusLaunched); err != nil {
		d.countCycle("error")
		return nil, err
	}
	log.Info("mailing launched", "recipients", len(recipients))

	result := &Result{MailingID: m.ID.String()}
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			d.countCycle("error")
			return result, fmt.Errorf("dispatch interrupted: %w", err)
		}

		status, err := d.tracker.CurrentStatus(ctx, m)
		if err != nil {
			d.countCycle("error")
			return result, err
		}
		if status == model.MailingStatusDisabled {
			m.Status = status
			result.Aborted = true
			log.Warn("mailing disabled during dispatch, stopping", "sent", result.Attempted)
			break
		}

		attempt := &model.SendingAttempt{
			MailingID:      m.ID,
			RecipientEmail: r.Email,
			Owned:          m.Owned,
		}
		if err := d.transport.Send(ctx, message.Subject, message.Body, d.from, []string{r.Email}); err != nil {
			attempt.Status = model.AttemptStatusFail
			attempt.Answer = err.Error()
			result.Failed++
			log.Warn("delivery failed", "recipient", r.Email, "error", err.Error())
		} else {
			attempt.Status = model.AttemptStatusSuccess
			attempt.Answer = fmt.Sprintf("message successfully sent to %s", r.Email)
			result.Succeeded++
			log.Debug("delivered", "recipient", r.Email)
		}
		result.Attempted++

		if err := d.attempts.Create(ctx, attempt); err != nil {
			d.countCycle("error")
			return result, fmt.Errorf("failed to record sending attempt: %w", err)
		}
		if d.metrics != nil {
			d.metrics.SendingAttempts.WithLabelValues(string(attempt.Status)).Inc()
		}
	}

	if !result.Aborted {
		if err := d.tracker.SetStatus(ctx, m, model.MailingStatusDone); err != nil {
			d.countCycle("error")
			return result, err
		}
	}
	result.Status = m.Status

	outcome := "done"
	if result.Aborted {
		outcome = "aborted"
	}
	d.countCycle(outcome)
	if d.metrics != nil {
		d.metrics.DispatchDuration.Observe(time.Since(started).Seconds())
	}
	log.Info("mailing finished",
		"status", string(result.Status),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func (d *Dispatcher) countCycle(outcome string) {
	if d.metrics != nil {
		d.metrics.DispatchCycles.WithLabelValues(outcome).Inc()
	}
}
