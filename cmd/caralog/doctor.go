package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/Zuo-Peng/caralog/internal/source"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, source export and logs database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("=== Config ===")
			if err := cfg.Validate(); err != nil {
				fmt.Printf("  INVALID: %v\n", err)
			} else {
				fmt.Printf("  Log level: %s (OK)\n", cfg.LogLevel)
			}

			fmt.Println("\n=== Source ===")
			checkFile("Export", cfg.SourcePath)
			if counts, err := source.Count(cfg.SourcePath); err != nil {
				fmt.Printf("  read error: %v\n", err)
			} else {
				fmt.Printf("  Entries: %d\n", counts.Total)
				fmt.Printf("  Deleted: %d\n", counts.Deleted)
				fmt.Printf("  Live:    %d\n", counts.Total-counts.Deleted)
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'caralog migrate' first)")
				return nil
			}

			db, err := logsdb.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			rowCount, err := db.RowCount()
			if err != nil {
				return fmt.Errorf("count rows: %w", err)
			}
			fmt.Printf("  Rows: %d\n", rowCount)

			byType, err := db.CountByType()
			if err != nil {
				return fmt.Errorf("count by type: %w", err)
			}
			for _, tc := range byType {
				fmt.Printf("    %-20s %d\n", tc.LogType, tc.Count)
			}

			fmt.Println("\n=== Last Run ===")
			run, err := db.LastRun()
			if err != nil {
				return fmt.Errorf("last run: %w", err)
			}
			if run == nil {
				fmt.Println("  none recorded")
			} else {
				fmt.Printf("  Run:      %s\n", run.RunID)
				fmt.Printf("  Finished: %s\n", run.FinishedAt)
				fmt.Printf("  Rows:     %s\n", run.RowCount)
				if run.RowCount != fmt.Sprint(rowCount) {
					fmt.Println("  Status: MISMATCH (table changed since the run)")
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkFile(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if info.IsDir() {
		fmt.Printf("  %s: %s (IS A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
