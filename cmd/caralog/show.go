package main

import (
	"fmt"
	"strconv"

	"github.com/Zuo-Peng/caralog/internal/render"
	"github.com/spf13/cobra"
)

func parseRowID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid row id %q", s)
	}
	return id, nil
}

func showCmd() *cobra.Command {
	var context int
	var query string

	cmd := &cobra.Command{
		Use:   "show <rowid>",
		Short: "Show a log row with its neighbours",
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

			out, _, err := render.RenderRow(db, rowID, render.Options{
				Context: context,
				Query:   query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&context, "context", 3, "Rows before/after to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
