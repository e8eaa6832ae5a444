// Package ranking picks the leading country in a sport for one medal kind.
package ranking

import (
	"sort"
	"strings"

	"github.com/IshaanNene/WikiStats/internal/types"
)

// Outcome classifies a ranking result.
type Outcome int

const (
	// NoLeader means no country has a positive count, or there was no input.
	NoLeader Outcome = iota
	// Single means exactly one country leads.
	Single
	// Tied means more than one, but not every, country shares the lead.
	Tied
	// AllTied means every country shares the same positive count.
	AllTied
)

func (o Outcome) String() string {
	switch o {
	case Single:
		return "single"
	case Tied:
		return "tied"
	case AllTied:
		return "all_tied"
	default:
		return "no_leader"
	}
}

// Leader is the result of PickLeader. Names is sorted and holds the
// countries at the maximum count (empty for NoLeader).
type Leader struct {
	Outcome Outcome
	Names   []string
	Count   int
}

// String renders the leader the way the summary table shows it: the single
// name, tied names joined by "/", or "None" when there is no leader or
// every country is tied.
func (l Leader) String() string {
	switch l.Outcome {
	case Single, Tied:
		return strings.Join(l.Names, "/")
	default:
		return "None"
	}
}

// ParseMedalKind validates a medal kind name.
func ParseMedalKind(s string) (types.MedalKind, error) {
	return types.ParseMedalKind(s)
}

// PickLeader finds the countries with the highest count of kind. A kind
// outside Gold, Silver and Bronze is rejected with ErrInvalidMedalKind.
func PickLeader(medals map[string]types.MedalCount, kind types.MedalKind) (Leader, error) {
	if _, err := ParseMedalKind(string(kind)); err != nil {
		return Leader{}, err
	}

	best := 0
	var leaders []string
	for country, count := range medals {
		n := count.Get(kind)
		switch {
		case n > best:
			best = n
			leaders = []string{country}
		case n == best:
			leaders = append(leaders, country)
		}
	}
	sort.Strings(leaders)

	switch {
	case len(medals) == 0 || best == 0:
		return Leader{Outcome: NoLeader}, nil
	case len(leaders) == 1:
		return Leader{Outcome: Single, Names: leaders, Count: best}, nil
	case len(leaders) == len(medals):
		return Leader{Outcome: AllTied, Names: leaders, Count: best}, nil
	default:
		return Leader{Outcome: Tied, Names: leaders, Count: best}, nil
	}
}

// Pick validates kindName and ranks medals by it.
func Pick(medals map[string]types.MedalCount, kindName string) (Leader, error) {
	kind, err := ParseMedalKind(kindName)
	if err != nil {
		return Leader{}, err
	}
	return PickLeader(medals, kind)
}
