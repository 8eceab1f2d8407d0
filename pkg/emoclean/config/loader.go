package config

import (
	"fmt"

	"github.com/cognicore/emoclean/pkg/emoclean/lexicon"
)

// Loader loads the files referenced by a configuration and constructs components
type Loader struct {
	LexiconPath string
}

// Components holds all loaded configuration components
type Components struct {
	Lexicon *lexicon.Lexicon
}

// Load reads all configured files and returns initialized components.
// Without a lexicon file the built-in emotion table is used.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}

	return comp, nil
}
