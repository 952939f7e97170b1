package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/client-connect/internal/bootstrap"
	"github.com/jwalitptl/client-connect/internal/config"
	"github.com/jwalitptl/client-connect/pkg/logger"
)

// app is populated by the root command before any subcommand runs.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath string

	root := &cobra.Command{
		Use:           "mailer",
		Short:         "Administer and dispatch mailing campaigns",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if configPath != "" {
				paths = append(paths, configPath)
			}
			cfg, err := config.LoadConfig(paths...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.NewLogger(&logger.Config{
				Level:  logger.ParseLevel(cfg.Log.Level),
				Output: os.Stderr,
			})
			log.Logger = a.logger.ZL
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "directory containing config.yml")

	root.AddCommand(
		newSendCmd(a),
		newMigrateCmd(a),
		newSeedRolesCmd(a),
		newCreateSuperuserCmd(a),
		newEventsCmd(a),
	)
	return root
}

func (a *app) openStorage() (*bootstrap.Storage, error) {
	return bootstrap.OpenStorage(a.cfg, false)
}

// services wires the domain services. Status events go to Redis when it
// is configured; the returned func releases the broker.
func (a *app) services(st *bootstrap.Storage) (*bootstrap.Services, func(), error) {
	broker, err := bootstrap.NewBroker(a.cfg.Redis, &a.logger.ZL, nil)
	if err != nil {
		return nil, nil, err
	}
	release := func() {}
	if broker != nil {
		release = func() { broker.Close() }
	}

	return bootstrap.NewServices(a.cfg, st, bootstrap.Deps{
		Transport: bootstrap.NewTransport(a.cfg.Mail),
		Broker:    broker,
		Logger:    a.logger,
	}), release, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
