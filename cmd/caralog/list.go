package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zuo-Peng/caralog/internal/search"
	"github.com/Zuo-Peng/caralog/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func listCmd() *cobra.Command {
	var logType, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "Browse or search migrated log rows",
		Long: `Lists migrated rows in storage order. With a query, only rows whose logText
or tags contain it are shown. On a terminal this opens an interactive browser;
otherwise rows are printed as TSV:
  rowid, timestamp, logType, snippet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openLogsDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{
				LogType: logType,
				Since:   since,
				Limit:   limit,
			}
			if len(args) == 1 {
				opts.Query = args[0]
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, cfg.SourcePath, opts)
			}

			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No rows found.")
				return nil
			}

			for _, r := range results {
				snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
				snippet = strings.ReplaceAll(snippet, "\n", " ")
				ts := r.Row.Timestamp.String
				if !r.Row.Timestamp.Valid {
					ts = "-"
				}
				// first field (rowid) stays plain for fzf {1}
				fmt.Printf("%d\t%s%s%s\t%s%s%s\t%s\n",
					r.Row.ID,
					sColorDim, ts, sColorReset,
					sColorBlue, r.Row.LogType, sColorReset,
					colorizeSnippet(snippet),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logType, "type", "", "Filter by log type (stool/food/medication/sleep/...)")
	cmd.Flags().StringVar(&since, "since", "", "Filter rows logged since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max rows")

	return cmd
}
