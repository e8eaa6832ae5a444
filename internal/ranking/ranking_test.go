package ranking

import (
	"errors"
	"reflect"
	"testing"

	"github.com/IshaanNene/WikiStats/internal/types"
)

func gold(counts map[string]int) map[string]types.MedalCount {
	m := make(map[string]types.MedalCount, len(counts))
	for c, n := range counts {
		m[c] = types.MedalCount{Gold: n}
	}
	return m
}

func TestPickLeader(t *testing.T) {
	tests := []struct {
		name    string
		medals  map[string]types.MedalCount
		outcome Outcome
		names   []string
		str     string
	}{
		{"two tied", gold(map[string]int{"Norway": 3, "Sweden": 3, "Denmark": 1}), Tied, []string{"Norway", "Sweden"}, "Norway/Sweden"},
		{"all zero", gold(map[string]int{"Norway": 0, "Sweden": 0, "Denmark": 0}), NoLeader, nil, "None"},
		{"single", gold(map[string]int{"Norway": 5, "Sweden": 1, "Denmark": 1}), Single, []string{"Norway"}, "Norway"},
		{"all tied", gold(map[string]int{"Norway": 2, "Sweden": 2, "Denmark": 2}), AllTied, []string{"Denmark", "Norway", "Sweden"}, "None"},
		{"empty", map[string]types.MedalCount{}, NoLeader, nil, "None"},
		{"lone entrant", gold(map[string]int{"Denmark": 4}), Single, []string{"Denmark"}, "Denmark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PickLeader(tt.medals, types.Gold)
			if err != nil {
				t.Fatalf("PickLeader: %v", err)
			}
			if got.Outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", got.Outcome, tt.outcome)
			}
			if !reflect.DeepEqual(got.Names, tt.names) {
				t.Errorf("names = %v, want %v", got.Names, tt.names)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestPickLeaderUsesKind(t *testing.T) {
	medals := map[string]types.MedalCount{
		"Norway":  {Gold: 9, Bronze: 1},
		"Sweden":  {Gold: 1, Bronze: 7},
		"Denmark": {Gold: 1, Bronze: 2},
	}
	got, err := PickLeader(medals, types.Bronze)
	if err != nil {
		t.Fatalf("PickLeader: %v", err)
	}
	if got.String() != "Sweden" {
		t.Errorf("bronze leader = %q, want Sweden", got)
	}
}

func TestPickLeaderRejectsUnknownKind(t *testing.T) {
	medals := gold(map[string]int{"Norway": 3})
	for _, kind := range []types.MedalKind{"gold", "Platinum", ""} {
		if _, err := PickLeader(medals, kind); !errors.Is(err, types.ErrInvalidMedalKind) {
			t.Errorf("PickLeader(%q): expected ErrInvalidMedalKind, got %v", kind, err)
		}
	}
}

func TestPickInvalidKind(t *testing.T) {
	_, err := Pick(gold(map[string]int{"Norway": 1}), "Platinum")
	if !errors.Is(err, types.ErrInvalidMedalKind) {
		t.Fatalf("expected ErrInvalidMedalKind, got %v", err)
	}

	if _, err := Pick(gold(map[string]int{"Norway": 1}), "gold"); err == nil {
		t.Error("lowercase kind should be rejected")
	}
}

func TestPickValidKind(t *testing.T) {
	got, err := Pick(gold(map[string]int{"Norway": 1, "Sweden": 0}), "Gold")
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got.Outcome != Single || got.Count != 1 {
		t.Errorf("got %+v", got)
	}
}
