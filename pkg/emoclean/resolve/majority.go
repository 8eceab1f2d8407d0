package resolve

import (
	"sort"

	"github.com/cognicore/emoclean/pkg/emoclean/group"
)

// Vote picks the most frequent label. Ties go to the lexicographically
// smallest label; tied lists every label sharing the maximum count, sorted.
// An empty tally yields "".
func Vote(counts map[string]int) (label string, tied []string) {
	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return "", nil
	}
	for l, n := range counts {
		if n == best {
			tied = append(tied, l)
		}
	}
	sort.Strings(tied)
	return tied[0], tied
}

// Majority collapses each video group of conflicts to one record.
// The first record of the group (input order) is kept with its Emotion
// replaced by the majority label; the original row is left untouched.
func Majority(conflicts []group.Record) []group.Record {
	if len(conflicts) == 0 {
		return nil
	}

	groups := group.Groups(conflicts)
	resolved := make([]group.Record, 0, len(groups))
	for _, g := range groups {
		label, _ := Vote(g.Counts())
		rep := g.Records[0]
		rep.Row = rep.Row.Clone()
		rep.Emotion = label
		resolved = append(resolved, rep)
	}
	return resolved
}
