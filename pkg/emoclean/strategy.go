package emoclean

import (
	"fmt"
	"strings"

	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
)

// Strategy selects how conflicting video groups reach the final dataset.
type Strategy string

const (
	// StrategyNone drops every conflicting group from the final dataset.
	StrategyNone Strategy = "none"
	// StrategyMajority collapses each conflicting group to its majority label.
	StrategyMajority Strategy = "majority"
)

// Strategies lists the accepted strategy names.
func Strategies() []Strategy {
	return []Strategy{StrategyNone, StrategyMajority}
}

// ParseStrategy validates a strategy name. Empty selects StrategyNone.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyNone:
		return StrategyNone, nil
	case StrategyMajority:
		return StrategyMajority, nil
	}
	names := make([]string, 0, 2)
	for _, st := range Strategies() {
		names = append(names, string(st))
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", internalerr.ErrInvalidStrategy, s, strings.Join(names, ", "))
}

func (s Strategy) String() string {
	return string(s)
}
