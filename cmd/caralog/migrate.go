package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/caralog/internal/migrate"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var sourcePath, dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Rebuild the logs database from the tracking export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if sourcePath != "" {
				cfg.SourcePath = sourcePath
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			fmt.Fprintf(os.Stderr, "Migrating...\n")
			fmt.Fprintf(os.Stderr, "  Source: %s\n", cfg.SourcePath)
			fmt.Fprintf(os.Stderr, "  DB:     %s\n", cfg.DBPath)

			stats, err := migrate.Migrate(cfg, logger)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "Tracking export (JSONL) to read")
	cmd.Flags().StringVar(&dbPath, "db", "", "Logs database to write")

	return cmd
}
