package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/emoclean/pkg/emoclean/config"
)

func newLexiconCommand() *cobra.Command {
	var lexiconPath string

	cmd := &cobra.Command{
		Use:   "lexicon [label...]",
		Short: "Show the emotion table, or how labels would be canonicalized",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.Loader{LexiconPath: lexiconPath}
			components, err := loader.Load()
			if err != nil {
				return err
			}
			lex := components.Lexicon
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				rows := make([][]string, 0, len(args))
				for _, raw := range args {
					match, variants := "title-cased", ""
					switch {
					case lex.IsCanonical(strings.TrimSpace(raw)):
						match = "canonical"
						variants = strings.Join(lex.Variants(raw), ", ")
					case lex.HasSynonyms(raw):
						match = "table"
						variants = strings.Join(lex.Variants(raw), ", ")
					}
					rows = append(rows, []string{raw, lex.NormalizeString(raw), match, variants})
				}
				fmt.Fprintln(out, renderTable(textColumns("Raw", "Canonical", "Match", "Variants"), rows))
				return nil
			}

			entries := lex.Entries()
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Canonical, strings.Join(e.Variants, ", ")})
			}
			fmt.Fprintln(out, renderTable(textColumns("Canonical", "Variants"), rows))

			stats := lex.Stats()
			fmt.Fprintf(out, "%d categories, %d variants\n", stats.Categories, stats.TotalVariants)
			return nil
		},
	}

	cmd.Flags().StringVar(&lexiconPath, "lexicon", "", "YAML emotion table replacing the built-in one")
	return cmd
}
