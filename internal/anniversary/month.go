package anniversary

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/IshaanNene/WikiStats/internal/types"
)

// Months are the page names of the selected anniversaries namespace.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var titleCaser = cases.Title(language.English)

// NormalizeMonth title-cases name ("april" becomes "April") and checks it
// against Months.
func NormalizeMonth(name string) (string, error) {
	month := titleCaser.String(strings.TrimSpace(name))
	for _, m := range Months {
		if m == month {
			return month, nil
		}
	}
	return "", fmt.Errorf("%w %q", types.ErrInvalidMonth, name)
}
