package main

import (
	"context"
	"errors"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/nileshswami544-code/freelancerpayment/internal/config"
	"github.com/nileshswami544-code/freelancerpayment/internal/logger"
	"github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

const logPathFlag = "log-path"

var workerFlags = map[string]cobraflags.Flag{
	logPathFlag: &cobraflags.StringFlag{
		Name:  logPathFlag,
		Value: "",
		Usage: "Activity log file (overrides EVENTS_LOG_PATH)",
	},
}

func newWorkerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume activity events into the activity log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev := config.LoadEventsConfig()
			if p := workerFlags[logPathFlag].GetString(); p != "" {
				ev.LogPath = p
			}
			log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
			defer func() { _ = log.Sync() }()

			c := &queue.Consumer{URL: ev.URL, Queue: ev.Queue, LogPath: ev.LogPath, Log: log}
			log.Infow("activity worker started", "queue", ev.Queue, "log_path", ev.LogPath)
			err := c.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				log.Info("activity worker stopped")
				return nil
			}
			return err
		},
	}
	cobraflags.RegisterMap(cmd, workerFlags)
	return cmd
}
