package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/client-connect/internal/bootstrap"
	"github.com/jwalitptl/client-connect/pkg/messaging"
)

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Follow mailing status events published on Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			broker, err := bootstrap.NewBroker(a.cfg.Redis, &a.logger.ZL, nil)
			if err != nil {
				return err
			}
			if broker == nil {
				return fmt.Errorf("redis.url is not configured")
			}
			defer broker.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ch, err := broker.Subscribe(ctx, bootstrap.EventsChannel)
			if err != nil {
				return err
			}
			a.logger.Info("listening for mailing events", "channel", bootstrap.EventsChannel)

			for payload := range ch {
				var event messaging.Event
				if err := json.Unmarshal(payload, &event); err != nil {
					a.logger.Warn("skipping malformed event", "error", err.Error())
					continue
				}
				a.logger.Info(event.Type, "payload", event.Payload, "occurred_at", event.OccurredAt)
			}
			return nil
		},
	}
}
