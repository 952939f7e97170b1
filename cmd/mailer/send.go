package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
	"github.com/jwalitptl/client-connect/internal/service/dispatch"
	"github.com/jwalitptl/client-connect/pkg/logger"
)

type dispatcher interface {
	Dispatch(ctx context.Context, m *model.Mailing) (*dispatch.Result, error)
}

func newSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send [mailing-id]",
		Short: "Send one mailing, or every mailing when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			svcs, release, err := a.services(st)
			if err != nil {
				return err
			}
			defer release()

			return runSend(cmd.Context(), st.Mailings, svcs.Dispatcher, a.logger, args)
		},
	}
}

// runSend dispatches the named mailing or all mailings, oldest first.
// Missing mailings and empty recipient lists are logged, not failures.
func runSend(ctx context.Context, mailings repository.MailingRepository, d dispatcher, log *logger.Logger, args []string) error {
	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Error(err, fmt.Sprintf("mailing %s not found", args[0]))
			return nil
		}
		m, err := mailings.Get(ctx, id)
		if stderrors.Is(err, repository.ErrNotFound) {
			log.Error(err, fmt.Sprintf("mailing %s not found", id))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load mailing: %w", err)
		}
		return sendOne(ctx, d, log, m)
	}

	all, err := mailings.List(ctx, model.ListFilter{})
	if err != nil {
		return fmt.Errorf("failed to list mailings: %w", err)
	}
	if len(all) == 0 {
		log.Info("no mailings available")
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	var failed int
	for _, m := range all {
		if err := sendOne(ctx, d, log, m); err != nil {
			log.Error(err, "failed to send mailing", "mailing_id", m.ID.String())
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d mailings failed", failed, len(all))
	}
	return nil
}

func sendOne(ctx context.Context, d dispatcher, log *logger.Logger, m *model.Mailing) error {
	result, err := d.Dispatch(ctx, m)
	switch {
	case stderrors.Is(err, dispatch.ErrNoRecipients):
		log.Warn(fmt.Sprintf("mailing %s has no recipients, skipped", m.ID))
		return nil
	case stderrors.Is(err, dispatch.ErrMailingDisabled):
		log.Warn(fmt.Sprintf("mailing %s is disabled, skipped", m.ID))
		return nil
	case err != nil:
		return err
	}

	log.Info(fmt.Sprintf("mailing %s %s", m.ID, result.Status),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"aborted", result.Aborted,
	)
	return nil
}
