// Package videokey derives grouping keys from raw video identifiers.
//
// Identifiers that differ only by case, embedded line breaks or incidental
// whitespace runs map to the same key.
package videokey

import (
	"strings"

	"github.com/cognicore/emoclean/pkg/emoclean/table"
)

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Normalize trims the identifier and replaces line breaks with spaces.
// A missing value normalizes to "".
func Normalize(raw table.Value) string {
	if !raw.Valid {
		return ""
	}
	s := strings.TrimSpace(raw.String)
	s = lineBreaks.Replace(s)
	return strings.TrimSpace(s)
}

// Key lower-cases a normalized identifier and collapses whitespace runs.
func Key(normalized string) string {
	return strings.Join(strings.Fields(strings.ToLower(normalized)), " ")
}

// FromValue is Key(Normalize(raw)).
func FromValue(raw table.Value) string {
	return Key(Normalize(raw))
}
