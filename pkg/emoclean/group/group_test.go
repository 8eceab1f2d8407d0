package group

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/emoclean/pkg/emoclean/table"
)

func rec(i int, key, emotion string) Record {
	return Record{
		Index:    i,
		Row:      table.Row{"video": table.Str(key), "emotion": table.Str(emotion)},
		Emotion:  emotion,
		VideoKey: key,
	}
}

func indexes(rs []Record) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Index
	}
	return out
}

func TestPartitionEmpty(t *testing.T) {
	res := Partition(nil)
	if len(res.Keep) != 0 || len(res.Conflicts) != 0 || len(res.Report) != 0 {
		t.Errorf("Partition(nil) = %+v, want empty", res)
	}
}

func TestPartitionDedupesConsistentGroups(t *testing.T) {
	records := []Record{
		rec(0, "a", "Joy"),
		rec(1, "b", "Fear"),
		rec(2, "a", "Joy"),
		rec(3, "a", "Joy"),
	}

	res := Partition(records)
	if diff := cmp.Diff([]int{0, 1}, indexes(res.Keep)); diff != "" {
		t.Errorf("Keep mismatch (-want +got):\n%s", diff)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("Conflicts = %v, want none", indexes(res.Conflicts))
	}
}

func TestPartitionConflictingGroups(t *testing.T) {
	records := []Record{
		rec(0, "b", "Sadness"),
		rec(1, "a", "Joy"),
		rec(2, "b", "Anger"),
		rec(3, "b", "Sadness"),
	}

	res := Partition(records)
	if diff := cmp.Diff([]int{1}, indexes(res.Keep)); diff != "" {
		t.Errorf("Keep mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2, 3}, indexes(res.Conflicts)); diff != "" {
		t.Errorf("Conflicts mismatch (-want +got):\n%s", diff)
	}

	want := []ReportEntry{{
		VideoKey: "b",
		Rows:     3,
		Labels:   map[string]int{"Sadness": 2, "Anger": 1},
	}}
	if diff := cmp.Diff(want, res.Report); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionEmptyLabelIsDistinct(t *testing.T) {
	records := []Record{
		rec(0, "a", ""),
		rec(1, "a", "Joy"),
		rec(2, "c", ""),
		rec(3, "c", ""),
	}

	res := Partition(records)
	if diff := cmp.Diff([]int{2}, indexes(res.Keep)); diff != "" {
		t.Errorf("Keep mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, indexes(res.Conflicts)); diff != "" {
		t.Errorf("Conflicts mismatch (-want +got):\n%s", diff)
	}

	want := []ReportEntry{{
		VideoKey: "a",
		Rows:     2,
		Labels:   map[string]int{"": 1, "Joy": 1},
	}}
	if diff := cmp.Diff(want, res.Report); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupDistinct(t *testing.T) {
	g := Group{Key: "w", Records: []Record{
		rec(0, "w", "Sadness"),
		rec(1, "w", ""),
		rec(2, "w", ""),
		rec(3, "w", "Anger"),
	}}

	if diff := cmp.Diff([]string{"", "Anger", "Sadness"}, g.Distinct()); diff != "" {
		t.Errorf("Distinct mismatch (-want +got):\n%s", diff)
	}
	if !g.Conflicting() {
		t.Error("Conflicting() = false, want true")
	}

	single := Group{Key: "c", Records: []Record{rec(0, "c", ""), rec(1, "c", "")}}
	if single.Conflicting() {
		t.Error("group with only empty labels should be consistent")
	}
}

func TestPartitionCoversEveryRowOnce(t *testing.T) {
	records := []Record{
		rec(0, "x", "Joy"),
		rec(1, "y", "Joy"),
		rec(2, "x", "Fear"),
		rec(3, "z", "Trust"),
		rec(4, "y", "Joy"),
		rec(5, "", "Neutral"),
	}

	res := Partition(records)
	groups := Groups(records)

	conflictKeys := make(map[string]bool)
	for _, r := range res.Conflicts {
		conflictKeys[r.VideoKey] = true
	}

	for _, g := range groups {
		kept := 0
		for _, r := range res.Keep {
			if r.VideoKey == g.Key {
				kept++
			}
		}
		if g.Conflicting() {
			if kept != 0 {
				t.Errorf("conflicting group %q contributed %d kept rows", g.Key, kept)
			}
			n := 0
			for _, r := range res.Conflicts {
				if r.VideoKey == g.Key {
					n++
				}
			}
			if n != len(g.Records) {
				t.Errorf("group %q: %d conflict rows, want %d", g.Key, n, len(g.Records))
			}
		} else {
			if kept != 1 {
				t.Errorf("consistent group %q contributed %d kept rows, want 1", g.Key, kept)
			}
			if conflictKeys[g.Key] {
				t.Errorf("consistent group %q appears in conflicts", g.Key)
			}
		}
	}
}

func TestGroupsOrder(t *testing.T) {
	records := []Record{
		rec(0, "b", "Joy"),
		rec(1, "a", "Joy"),
		rec(2, "b", "Fear"),
	}

	groups := Groups(records)
	if len(groups) != 2 {
		t.Fatalf("Groups() returned %d groups, want 2", len(groups))
	}
	if groups[0].Key != "a" || groups[1].Key != "b" {
		t.Errorf("group order = %q, %q; want a, b", groups[0].Key, groups[1].Key)
	}
	if diff := cmp.Diff([]int{0, 2}, indexes(groups[1].Records)); diff != "" {
		t.Errorf("records in group b out of input order (-want +got):\n%s", diff)
	}
}

func TestSortedLabels(t *testing.T) {
	e := ReportEntry{Labels: map[string]int{"Joy": 2, "Anger": 2, "Fear": 3}}
	want := []LabelCount{{"Fear", 3}, {"Anger", 2}, {"Joy", 2}}
	if diff := cmp.Diff(want, e.SortedLabels()); diff != "" {
		t.Errorf("SortedLabels mismatch (-want +got):\n%s", diff)
	}
}
