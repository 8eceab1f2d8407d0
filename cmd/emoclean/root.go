package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/emoclean/internal/logging"
	"github.com/cognicore/emoclean/pkg/emoclean"
	"github.com/cognicore/emoclean/pkg/emoclean/config"
	"github.com/cognicore/emoclean/pkg/emoclean/csvio"
	"github.com/cognicore/emoclean/pkg/emoclean/group"
	"github.com/cognicore/emoclean/pkg/emoclean/store"
	"github.com/cognicore/emoclean/pkg/emoclean/store/sqlite"
)

type rootFlags struct {
	configPath string
	cfg        config.Config
	report     bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:           "emoclean",
		Short:         "Clean and dedupe video emotion annotations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if err != nil {
				return err
			}

			var runs store.Store
			if cfg.ReportDB != "" {
				st, err := sqlite.OpenSQLite(cmd.Context(), cfg.ReportDB)
				if err != nil {
					return fmt.Errorf("open report db: %w", err)
				}
				defer st.Close()
				runs = st
			}

			res, err := runPipeline(cmd.Context(), cfg, logger, runs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Raw rows: %d, Final rows: %d, Conflict rows: %d\n",
				res.Counts.Raw, res.Counts.Final, res.Counts.Conflicts)
			if flags.report && len(res.Report) > 0 {
				fmt.Fprintln(out, renderReport(res.Report))
			}
			return nil
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file (.yaml or .toml)")
	f.StringVar(&flags.cfg.Input, "input", flags.cfg.Input, "Raw annotations CSV")
	f.StringVar(&flags.cfg.Output, "out", flags.cfg.Output, "Clean dataset output CSV")
	f.StringVar(&flags.cfg.Conflicts, "conflicts", flags.cfg.Conflicts, "Conflicting annotations output CSV")
	f.StringVar(&flags.cfg.Strategy, "strategy", flags.cfg.Strategy, "Conflict resolution strategy ("+strategyNames()+")")
	f.StringVar(&flags.cfg.LexiconPath, "lexicon", "", "YAML emotion table replacing the built-in one")
	f.StringVar(&flags.cfg.ReportDB, "report-db", "", "SQLite database recording runs and their conflict reports")
	f.StringVar(&flags.cfg.LogLevel, "log-level", flags.cfg.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&flags.cfg.LogFormat, "log-format", flags.cfg.LogFormat, "Log format (console, json)")
	f.BoolVar(&flags.report, "report", false, "Print the conflict report after the summary")

	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newLexiconCommand())

	return rootCmd
}

// resolveConfig layers defaults, the optional config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	overrides := []struct {
		name string
		dst  *string
		src  string
	}{
		{"input", &cfg.Input, flags.cfg.Input},
		{"out", &cfg.Output, flags.cfg.Output},
		{"conflicts", &cfg.Conflicts, flags.cfg.Conflicts},
		{"strategy", &cfg.Strategy, flags.cfg.Strategy},
		{"lexicon", &cfg.LexiconPath, flags.cfg.LexiconPath},
		{"report-db", &cfg.ReportDB, flags.cfg.ReportDB},
		{"log-level", &cfg.LogLevel, flags.cfg.LogLevel},
		{"log-format", &cfg.LogFormat, flags.cfg.LogFormat},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.name) {
			*o.dst = o.src
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runPipeline reads the input, cleans it, writes both outputs and records the run
// in runs when it is non-nil. The conflicts file is written before the clean dataset.
func runPipeline(ctx context.Context, cfg config.Config, logger *slog.Logger, runs store.Store) (*emoclean.Result, error) {
	strategy, err := cfg.ParsedStrategy()
	if err != nil {
		return nil, err
	}

	loader := config.Loader{LexiconPath: cfg.LexiconPath}
	components, err := loader.Load()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := csvio.ReadFile(cfg.Input, emoclean.ColumnEmotion, emoclean.ColumnVideo)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded input", "path", cfg.Input, "rows", raw.Len(), "columns", len(raw.Columns))

	cleaner := emoclean.New(emoclean.Options{Lexicon: components.Lexicon, Logger: logger})
	res, err := cleaner.Run(raw, strategy)
	if err != nil {
		return nil, err
	}

	if err := csvio.WriteFile(cfg.Conflicts, res.Conflicts); err != nil {
		return nil, fmt.Errorf("write conflicts: %w", err)
	}
	if err := csvio.WriteFile(cfg.Output, res.Final); err != nil {
		return nil, fmt.Errorf("write clean dataset: %w", err)
	}
	logger.Debug("cleanup finished",
		"run_id", res.RunID,
		"strategy", res.Strategy.String(),
		"raw_rows", res.Counts.Raw,
		"final_rows", res.Counts.Final,
		"conflict_rows", res.Counts.Conflicts,
		"duration", time.Since(started).Round(time.Millisecond).String())

	if runs != nil {
		if err := recordRun(ctx, runs, cfg.Input, started, res); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}
	return res, nil
}

func recordRun(ctx context.Context, st store.Store, input string, started time.Time, res *emoclean.Result) error {
	return st.SaveRun(ctx, store.Run{
		ID:           res.RunID,
		StartedAt:    started,
		Input:        input,
		Strategy:     res.Strategy.String(),
		RawRows:      res.Counts.Raw,
		FinalRows:    res.Counts.Final,
		ConflictRows: res.Counts.Conflicts,
		Report:       res.Report,
	})
}

func strategyNames() string {
	names := make([]string, 0, len(emoclean.Strategies()))
	for _, s := range emoclean.Strategies() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

func renderReport(report []group.ReportEntry) string {
	rows := make([][]string, 0, len(report))
	for _, e := range report {
		labels := make([]string, 0, len(e.Labels))
		for _, lc := range e.SortedLabels() {
			label := lc.Label
			if label == "" {
				label = `""`
			}
			labels = append(labels, fmt.Sprintf("%s (%d)", label, lc.Count))
		}
		rows = append(rows, []string{e.VideoKey, strconv.Itoa(e.Rows), strings.Join(labels, ", ")})
	}
	return renderTable([]column{{Header: "Video"}, {Header: "Rows", Numeric: true}, {Header: "Labels"}}, rows)
}
