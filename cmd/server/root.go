package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const envFileFlag = "env-file"

func newRootCommand() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "freelancer",
		Short:         "Freelancer business-management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnv(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, envFileFlag, "",
		"Path to a .env file loaded before reading configuration (default: ./.env if present)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newWorkerCommand())
	return root
}

// loadEnv loads path into the process environment.  Without a path the
// optional ./.env is used; variables already set are never overridden.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
