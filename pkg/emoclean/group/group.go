package group

import (
	"sort"

	"github.com/cognicore/emoclean/pkg/emoclean/table"
)

// Record is an input row annotated with its canonical label and grouping key.
type Record struct {
	Index    int       // position in the input table
	Row      table.Row // original row, never mutated
	Emotion  string    // canonical label, "" when the raw label was missing
	VideoKey string
}

// Group holds all records sharing a video key, in input order.
type Group struct {
	Key     string
	Records []Record
}

// Counts returns occurrences of each label in the group.
// A missing label counts as "" like any other value.
func (g Group) Counts() map[string]int {
	counts := make(map[string]int)
	for _, r := range g.Records {
		counts[r.Emotion]++
	}
	return counts
}

// Distinct returns the labels present in the group, sorted.
func (g Group) Distinct() []string {
	counts := g.Counts()
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Conflicting reports whether the group carries two or more distinct labels.
func (g Group) Conflicting() bool {
	return len(g.Distinct()) > 1
}

// ReportEntry summarizes one conflicting group.
type ReportEntry struct {
	VideoKey string
	Rows     int
	Labels   map[string]int
}

// LabelCount is a single label tally.
type LabelCount struct {
	Label string
	Count int
}

// SortedLabels returns the label tallies ordered by count (desc) then label.
func (e ReportEntry) SortedLabels() []LabelCount {
	out := make([]LabelCount, 0, len(e.Labels))
	for label, n := range e.Labels {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Result is the outcome of Partition.
type Result struct {
	Keep      []Record
	Conflicts []Record
	Report    []ReportEntry
}

// Groups partitions records by video key.
// Groups are returned in ascending key order; records inside a group keep input order.
func Groups(records []Record) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		i, ok := index[r.VideoKey]
		if !ok {
			i = len(groups)
			index[r.VideoKey] = i
			groups = append(groups, Group{Key: r.VideoKey})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// Partition splits records into deduplicated consistent rows and conflicting rows.
//
// A consistent group (one distinct label, "" included) contributes its first
// record to Keep. A conflicting group contributes every record to Conflicts and
// one entry to Report.
func Partition(records []Record) Result {
	var res Result
	for _, g := range Groups(records) {
		if !g.Conflicting() {
			res.Keep = append(res.Keep, g.Records[0])
			continue
		}
		res.Conflicts = append(res.Conflicts, g.Records...)
		res.Report = append(res.Report, ReportEntry{
			VideoKey: g.Key,
			Rows:     len(g.Records),
			Labels:   g.Counts(),
		})
	}
	return res
}
