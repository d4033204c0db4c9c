package main

import (
	"github.com/spf13/cobra"

	"github.com/nileshswami544-code/freelancerpayment/internal/config"
	"github.com/nileshswami544-code/freelancerpayment/internal/database"
	"github.com/nileshswami544-code/freelancerpayment/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.Env)
			defer func() { _ = log.Sync() }()

			db, err := database.Open(cmd.Context(), cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return err
			}
			defer db.Close()

			ms, err := database.Migrations()
			if err != nil {
				return err
			}
			n, err := database.Migrate(cmd.Context(), db, ms, log)
			if err != nil {
				return err
			}
			log.Infow("migrations applied", "count", n)
			return nil
		},
	}
}
