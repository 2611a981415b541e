package main

import (
	"github.com/Zuo-Peng/caralog/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <rowid>",
		Short: "Open the tracking export in $EDITOR at the row's source entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowID, err := parseRowID(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openLogsDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenEntry(db, cfg.SourcePath, rowID)
		},
	}
}
