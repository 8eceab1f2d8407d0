package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/emoclean/pkg/emoclean/group"
	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
	"github.com/cognicore/emoclean/pkg/emoclean/store"
)

// TestSQLiteIntegrationRunRoundTrip tests saving and loading a run with its report
func TestSQLiteIntegrationRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	run := store.Run{
		ID:           "01JABCDEF0000000000000000",
		StartedAt:    time.Date(2026, 10, 19, 8, 30, 0, 123, time.UTC),
		Input:        "data/datatrain.csv",
		Strategy:     "majority",
		RawRows:      4,
		FinalRows:    2,
		ConflictRows: 2,
		Report: []group.ReportEntry{
			{VideoKey: "b", Rows: 2, Labels: map[string]int{"Sadness": 1, "Anger": 1}},
			{VideoKey: "clip 9", Rows: 4, Labels: map[string]int{"Joy": 2, "Fear": 1, "": 1}},
		},
	}

	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, found, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !found {
		t.Fatal("Run should be found")
	}
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}

	// Saving again replaces the report instead of appending to it
	run.Report = run.Report[:1]
	run.FinalRows = 1
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun (update): %v", err)
	}
	got, _, err = st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Report) != 1 || got.FinalRows != 1 {
		t.Errorf("updated run = %+v", got)
	}
}

func TestSQLiteIntegrationMissingRun(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	_, found, err := st.GetRun(ctx, "nope")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if found {
		t.Error("missing run should not be found")
	}

	if err := st.SaveRun(ctx, store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("SaveRun(empty id) = %v, want ErrInvalidInput", err)
	}
}

func TestSQLiteIntegrationListRuns(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := store.Run{
			ID:        fmt.Sprintf("run-%d", i),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Strategy:  "none",
			RawRows:   i,
		}
		if err := st.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	st.Close()

	// Reopen to make sure the data is persisted
	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, 3)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"run-4", "run-3", "run-2"}, ids); diff != "" {
		t.Errorf("ListRuns order (-want +got):\n%s", diff)
	}

	all, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns(0): %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListRuns(0) returned %d runs, want 5", len(all))
	}
}
