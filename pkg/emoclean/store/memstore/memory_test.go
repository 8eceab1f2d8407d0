package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/emoclean/pkg/emoclean/group"
	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
	"github.com/cognicore/emoclean/pkg/emoclean/store"
)

var _ store.Store = (*Store)(nil)

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	s := New()

	run := store.Run{
		ID:        "01A",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Strategy:  "none",
		RawRows:   4,
		Report:    []group.ReportEntry{{VideoKey: "b", Rows: 2, Labels: map[string]int{"Joy": 1, "Anger": 1}}},
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	// mutating the caller's copy must not leak into the store
	run.Report[0].Labels["Joy"] = 99

	got, ok, err := s.GetRun(ctx, "01A")
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if got.Report[0].Labels["Joy"] != 1 {
		t.Errorf("stored report was mutated: %+v", got.Report)
	}

	if _, ok, _ := s.GetRun(ctx, "missing"); ok {
		t.Error("GetRun(missing) should not be found")
	}
}

func TestSaveRunRequiresID(t *testing.T) {
	if err := New().SaveRun(context.Background(), store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("SaveRun(empty id) = %v, want ErrInvalidInput", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"01A", "01B", "01C"} {
		if err := s.SaveRun(ctx, store.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "01C" || runs[1].ID != "01B" {
		t.Errorf("ListRuns(2) = %+v, want 01C, 01B", runs)
	}

	all, _ := s.ListRuns(ctx, 0)
	if len(all) != 3 {
		t.Errorf("ListRuns(0) returned %d runs, want 3", len(all))
	}
}
