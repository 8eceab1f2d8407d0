package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
	"github.com/cognicore/emoclean/pkg/emoclean/store/sqlite"
)

func newHistoryCommand() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show the conflict report of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--report-db is required")
			}

			ctx := cmd.Context()
			st, err := sqlite.OpenSQLite(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("open report db: %w", err)
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, found, err := st.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("run %s: %w", args[0], internalerr.ErrNotFound)
				}
				fmt.Fprintf(out, "Run %s (%s) strategy=%s input=%s\n",
					run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Strategy, run.Input)
				fmt.Fprintf(out, "Raw rows: %d, Final rows: %d, Conflict rows: %d\n",
					run.RawRows, run.FinalRows, run.ConflictRows)
				if len(run.Report) == 0 {
					fmt.Fprintln(out, "No conflicts recorded.")
					return nil
				}
				fmt.Fprintln(out, renderReport(run.Report))
				return nil
			}

			runs, err := st.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.Strategy,
					strconv.Itoa(r.RawRows),
					strconv.Itoa(r.FinalRows),
					strconv.Itoa(r.ConflictRows),
				})
			}
			cols := append(textColumns("Run", "Started", "Strategy"),
				column{Header: "Raw", Numeric: true},
				column{Header: "Final", Numeric: true},
				column{Header: "Conflicts", Numeric: true})
			fmt.Fprintln(out, renderTable(cols, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "report-db", "", "SQLite database written by --report-db runs")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}
