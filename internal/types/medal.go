package types

import (
	"fmt"
	"strings"
)

// MedalKind is one of Gold, Silver or Bronze.
type MedalKind string

const (
	Gold   MedalKind = "Gold"
	Silver MedalKind = "Silver"
	Bronze MedalKind = "Bronze"
)

// MedalKinds lists the valid kinds in podium order.
var MedalKinds = []MedalKind{Gold, Silver, Bronze}

// ParseMedalKind validates s as a medal kind. Matching is exact, as the kind
// doubles as a key and a file name component.
func ParseMedalKind(s string) (MedalKind, error) {
	for _, k := range MedalKinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(MedalKinds))
	for i, k := range MedalKinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("%w %q: must be one of %s", ErrInvalidMedalKind, s, strings.Join(names, ", "))
}

// MedalCount holds medal totals for one country in one sport.
type MedalCount struct {
	Gold   int `json:"gold"   bson:"gold"`
	Silver int `json:"silver" bson:"silver"`
	Bronze int `json:"bronze" bson:"bronze"`
}

// Get returns the count for kind. Unknown kinds yield 0.
func (m MedalCount) Get(kind MedalKind) int {
	switch kind {
	case Gold:
		return m.Gold
	case Silver:
		return m.Silver
	case Bronze:
		return m.Bronze
	}
	return 0
}

// Total returns the sum of all medals.
func (m MedalCount) Total() int {
	return m.Gold + m.Silver + m.Bronze
}
