package main

import (
	"github.com/spf13/cobra"

	"github.com/jwalitptl/client-connect/internal/repository/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			db, err := postgres.NewDB(a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if direction == "down" {
				err = postgres.MigrateDown(db)
			} else {
				err = postgres.MigrateUp(db)
			}
			if err != nil {
				return err
			}
			a.logger.Info("migrations applied", "direction", direction)
			return nil
		},
	}
}
