package params

import (
	"strings"

	"github.com/kailas-cloud/groupmatch/internal/domain/search/category"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/timewindow"
)

// Params are validated group search parameters. Zero values mean "not set".
type Params struct {
	Keywords       []string
	Category       category.Category
	TimePreference timewindow.Preference
	Page           int
}

// NormalizedKeywords returns the lower-cased keywords, skipping empty ones.
// Whitespace is kept: "run " matches only where a space follows "run".
func (p Params) NormalizedKeywords() []string {
	out := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		if k != "" {
			out = append(out, strings.ToLower(k))
		}
	}
	return out
}

// HasCategory reports whether category filtering applies.
func (p Params) HasCategory() bool {
	return p.Category != "" && p.Category != category.Any
}

// RequestedPage returns Page, treating values below 1 as page 1.
func (p Params) RequestedPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}
