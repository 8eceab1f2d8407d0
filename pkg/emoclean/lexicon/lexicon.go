package lexicon

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/emoclean/pkg/emoclean/table"
)

// Lexicon maps raw emotion labels to canonical categories:
// - Synonyms: words with the same meaning (happy ↔ joy)
// - Translations: Indonesian labels used by annotators (marah → anger)
// - Misspellings: frequent typos seen in the data (trkejut → surprise)
//
// Lookups are case-insensitive. Canonical forms keep their display casing
// ("Surprise", not "surprise") because they are written to the clean dataset.
type Lexicon struct {
	// canonical -> all lower-cased variants (canonical itself first)
	// Example: "Anger" -> ["anger", "angry", "marah", "marh"]
	synonyms map[string][]string

	// lower-cased variant -> canonical
	// Example: "marah" -> "Anger"
	reverseIndex map[string]string

	// canonical forms in insertion order
	order []string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// Default returns the curated emotion table used for annotation cleanup.
func Default() *Lexicon {
	lex := New()
	lex.AddSynonymGroup("Surprise", []string{"terkejut", "trkejut", "kaget", "trekejut"})
	lex.AddSynonymGroup("Joy", []string{"happy"})
	lex.AddSynonymGroup("Trust", []string{"faith", "loyalty", "percaya"})
	lex.AddSynonymGroup("Proud", []string{"pride", "bangga", "love"})
	lex.AddSynonymGroup("Sadness", []string{"sad"})
	lex.AddSynonymGroup("Anger", []string{"angry", "marah", "marh"})
	lex.AddSynonymGroup("Fear", nil)
	lex.AddSynonymGroup("Neutral", nil)
	return lex
}

// LoadFromYAML loads a label table from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: Anger
//	    variants: [angry, marah, marh]
//	  - canonical: Joy
//	    variants: [happy]
//
// Canonical values keep their casing; variants are matched case-insensitively.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range config.Synonyms {
		canonical := strings.TrimSpace(entry.Canonical)
		if canonical == "" {
			continue
		}
		lex.AddSynonymGroup(canonical, entry.Variants)
	}

	return lex, nil
}

// AddSynonymGroup registers a canonical label and its variants.
// The lower-cased canonical is always included as the first variant.
// If the group already exists, its old reverse index entries are dropped first.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	canonical = strings.TrimSpace(canonical)

	if oldVariants, exists := l.synonyms[canonical]; exists {
		for _, oldV := range oldVariants {
			if l.reverseIndex[oldV] == canonical {
				delete(l.reverseIndex, oldV)
			}
		}
	} else {
		l.order = append(l.order, canonical)
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := make(map[string]bool)

	key := strings.ToLower(canonical)
	normalized = append(normalized, key)
	seen[key] = true

	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			normalized = append(normalized, v)
			seen[v] = true
		}
	}

	l.synonyms[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical category for a raw label.
//
// Examples:
//   - Normalize(" ANGRY ") -> "Anger"
//   - Normalize("marah") -> "Anger"
//   - Normalize("bored stiff") -> "Bored Stiff" (unknown labels are title-cased)
//   - Normalize(Null) -> ""
func (l *Lexicon) Normalize(raw table.Value) string {
	if !raw.Valid {
		return ""
	}
	return l.NormalizeString(raw.String)
}

// NormalizeString is Normalize for a value known to be present.
func (l *Lexicon) NormalizeString(raw string) string {
	s := strings.TrimSpace(raw)
	if canonical, ok := l.reverseIndex[strings.ToLower(s)]; ok {
		return canonical
	}
	return cases.Title(language.Und).String(s)
}

// IsCanonical reports whether label is one of the canonical categories (exact casing).
func (l *Lexicon) IsCanonical(label string) bool {
	_, ok := l.synonyms[label]
	return ok
}

// Canonicals returns the canonical categories in registration order.
func (l *Lexicon) Canonicals() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Variants returns every known lower-cased variant for the category of token.
// Unknown tokens return a slice containing only the lower-cased token.
func (l *Lexicon) Variants(token string) []string {
	token = strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := l.reverseIndex[token]; ok {
		variants := l.synonyms[canonical]
		out := make([]string, len(variants))
		copy(out, variants)
		return out
	}
	return []string{token}
}

// HasSynonyms returns true if the token maps to a canonical category.
func (l *Lexicon) HasSynonyms(token string) bool {
	_, exists := l.reverseIndex[strings.ToLower(strings.TrimSpace(token))]
	return exists
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	totalVariants := 0
	for _, variants := range l.synonyms {
		totalVariants += len(variants)
	}
	return LexiconStats{
		Categories:    len(l.synonyms),
		TotalVariants: totalVariants,
	}
}

// Entries returns the table as (canonical, sorted variants) pairs in registration order.
func (l *Lexicon) Entries() []Entry {
	canonicals := l.Canonicals()
	out := make([]Entry, 0, len(canonicals))
	for _, c := range canonicals {
		variants := append([]string(nil), l.synonyms[c]...)
		sort.Strings(variants)
		out = append(out, Entry{Canonical: c, Variants: variants})
	}
	return out
}

// Entry is one canonical category and its variants.
type Entry struct {
	Canonical string
	Variants  []string
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	Categories    int // Number of canonical categories
	TotalVariants int // Total number of variants across all categories
}
