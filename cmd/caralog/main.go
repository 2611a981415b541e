package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Zuo-Peng/caralog/internal/config"
	"github.com/Zuo-Peng/caralog/internal/logging"
	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// logLevel overrides the configured level when set.
var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:           "caralog",
		Short:         "caralog - migrate tracking entries into a normalized logs database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the config and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return logging.New(cfg.LogLevel)
}

// openLogsDB opens an existing logs database. Only migrate may create one.
func openLogsDB(path string) (*logsdb.DB, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no logs database at %s (run 'caralog migrate' first)", path)
	}
	return logsdb.Open(path)
}
