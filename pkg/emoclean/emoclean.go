// Package emoclean cleans video emotion annotation tables.
//
// Raw labels are canonicalized through a lexicon, rows are grouped by a
// normalized video key, agreeing duplicates collapse to one row and videos
// whose annotators disagree are set aside for review or resolved by majority.
package emoclean

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/emoclean/pkg/emoclean/group"
	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
	"github.com/cognicore/emoclean/pkg/emoclean/lexicon"
	"github.com/cognicore/emoclean/pkg/emoclean/resolve"
	"github.com/cognicore/emoclean/pkg/emoclean/table"
	"github.com/cognicore/emoclean/pkg/emoclean/videokey"
)

// Column names of the annotation schema.
const (
	ColumnEmotion      = "emotion"
	ColumnVideo        = "video"
	ColumnEmotionClean = "emotion_clean"
)

// Cleaner runs the annotation cleanup pipeline:
// annotate → group → resolve (optional) → assemble
type Cleaner struct {
	lexicon *lexicon.Lexicon
	logger  *slog.Logger
	entropy *ulid.MonotonicEntropy
}

// Options configures a Cleaner.
type Options struct {
	Lexicon *lexicon.Lexicon // defaults to lexicon.Default()
	Logger  *slog.Logger     // defaults to a discarding logger
}

// New creates a Cleaner with the given dependencies.
func New(opts Options) *Cleaner {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cleaner{
		lexicon: lex,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Counts summarizes a run for humans.
type Counts struct {
	Raw       int
	Final     int
	Conflicts int
}

// Result holds the artifacts of one run.
type Result struct {
	RunID     string
	Strategy  Strategy
	Final     *table.Table
	Conflicts *table.Table
	Report    []group.ReportEntry
	Counts    Counts
}

// Annotate derives the canonical label and video key for every row.
func (c *Cleaner) Annotate(raw *table.Table) []group.Record {
	records := make([]group.Record, 0, raw.Len())
	for i, row := range raw.Rows {
		records = append(records, group.Record{
			Index:    i,
			Row:      row,
			Emotion:  c.lexicon.Normalize(row.Get(ColumnEmotion)),
			VideoKey: videokey.FromValue(row.Get(ColumnVideo)),
		})
	}
	return records
}

// Run cleans raw and returns the final dataset, the conflict dump and counts.
//
// Any strategy other than StrategyMajority behaves as StrategyNone; callers
// that accept user input should validate it with ParseStrategy first.
// The conflict dump always lists every row of every conflicting group.
func (c *Cleaner) Run(raw *table.Table, strategy Strategy) (*Result, error) {
	if raw == nil {
		return nil, fmt.Errorf("run: %w: nil table", internalerr.ErrInvalidInput)
	}
	if strategy != StrategyMajority {
		strategy = StrategyNone
	}

	runID := ulid.MustNew(ulid.Now(), c.entropy).String()
	log := c.logger.With("run_id", runID, "strategy", string(strategy))

	records := c.Annotate(raw)
	part := group.Partition(records)
	log.Debug("partitioned annotations",
		"rows", len(records),
		"kept", len(part.Keep),
		"conflict_rows", len(part.Conflicts),
		"conflict_groups", len(part.Report))

	final := part.Keep
	if strategy == StrategyMajority {
		resolved := resolve.Majority(part.Conflicts)
		log.Debug("resolved conflicts by majority", "groups", len(resolved))
		final = append(append([]group.Record(nil), part.Keep...), resolved...)
	}

	columns := outputColumns(raw.Columns)
	res := &Result{
		RunID:     runID,
		Strategy:  strategy,
		Final:     assemble(columns, final),
		Conflicts: assemble(columns, part.Conflicts),
		Report:    part.Report,
	}
	res.Counts = Counts{
		Raw:       raw.Len(),
		Final:     res.Final.Len(),
		Conflicts: res.Conflicts.Len(),
	}
	return res, nil
}

// outputColumns is the input header plus emotion_clean, without duplicates.
func outputColumns(in []string) []string {
	cols := make([]string, 0, len(in)+1)
	for _, c := range in {
		if c != ColumnEmotionClean {
			cols = append(cols, c)
		}
	}
	return append(cols, ColumnEmotionClean)
}

func assemble(columns []string, records []group.Record) *table.Table {
	out := table.New(columns...)
	for _, r := range records {
		row := make(table.Row, len(columns))
		for _, col := range columns {
			row[col] = r.Row.Get(col)
		}
		row[ColumnEmotionClean] = table.Str(r.Emotion)
		out.Append(row)
	}
	return out
}
