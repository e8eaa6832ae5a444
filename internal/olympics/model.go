// Package olympics collects per-country Olympic medal statistics from
// Wikipedia and renders the comparison report.
package olympics

import "github.com/IshaanNene/WikiStats/internal/types"

// SeasonMedals holds gold medal totals for the summer and winter games.
type SeasonMedals struct {
	Summer int `json:"summer" bson:"summer"`
	Winter int `json:"winter" bson:"winter"`
}

// CountryOverview is one country's entry in the all-time medal table.
// URL is empty when the country was not found in the table.
type CountryOverview struct {
	URL    string       `json:"url"    bson:"url"`
	Medals SeasonMedals `json:"medals" bson:"medals"`
}

// SportResult is the per-country medal count for one sport.
type SportResult struct {
	Sport  string
	Medals map[string]types.MedalCount
}
