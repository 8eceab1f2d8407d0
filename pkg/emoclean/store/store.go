package store

import (
	"context"
	"time"

	"github.com/cognicore/emoclean/pkg/emoclean/group"
)

// Store persists the history of cleanup runs and their conflict reports
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// ListRuns returns the most recent runs first; limit <= 0 returns all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run represents one recorded pipeline run
type Run struct {
	ID           string // ULID, sortable by creation time
	StartedAt    time.Time
	Input        string
	Strategy     string
	RawRows      int
	FinalRows    int
	ConflictRows int
	Report       []group.ReportEntry
}

// CopyReport deep-copies a conflict report.
func CopyReport(in []group.ReportEntry) []group.ReportEntry {
	if in == nil {
		return nil
	}
	out := make([]group.ReportEntry, len(in))
	for i, e := range in {
		labels := make(map[string]int, len(e.Labels))
		for k, v := range e.Labels {
			labels[k] = v
		}
		out[i] = group.ReportEntry{VideoKey: e.VideoKey, Rows: e.Rows, Labels: labels}
	}
	return out
}
