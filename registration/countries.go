package registration

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultCountries is the list offered by the country field
var DefaultCountries = []string{
	"Argentina", "Australia", "Austria", "Belarus", "Belgium", "Brazil",
	"Bulgaria", "Canada", "Chile", "China", "Colombia", "Croatia",
	"Czech Republic", "Denmark", "Egypt", "Estonia", "Finland", "France",
	"Georgia", "Germany", "Greece", "Hungary", "Iceland", "India",
	"Indonesia", "Ireland", "Israel", "Italy", "Japan", "Kazakhstan",
	"Latvia", "Lithuania", "Mexico", "Netherlands", "New Zealand", "Nigeria",
	"Norway", "Peru", "Philippines", "Poland", "Portugal", "Romania",
	"Serbia", "Singapore", "Slovakia", "Slovenia", "South Africa",
	"South Korea", "Spain", "Sweden", "Switzerland", "Thailand", "Turkey",
	"Ukraine", "United Kingdom", "United States", "Uruguay", "Vietnam",
}

// Countries is an immutable list of country names
type Countries struct {
	names []string
	lower []string
}

// NewCountries returns a sorted copy of names
func NewCountries(names []string) *Countries {
	sorted := slices.Clone(names)
	slices.Sort(sorted)

	lower := make([]string, len(sorted))
	for i, n := range sorted {
		lower[i] = strings.ToLower(n)
	}
	return &Countries{names: sorted, lower: lower}
}

// All returns every country name
func (c *Countries) All() []string {
	return slices.Clone(c.names)
}

// Contains reports whether name is a known country, ignoring case
func (c *Countries) Contains(name string) bool {
	return slices.Contains(c.lower, strings.ToLower(strings.TrimSpace(name)))
}

// Autocomplete returns up to limit countries starting with prefix,
// case-insensitively. A limit of zero or less returns all matches.
func (c *Countries) Autocomplete(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	matches := []string{}
	for i, l := range c.lower {
		if strings.HasPrefix(l, prefix) {
			matches = append(matches, c.names[i])
			if limit > 0 && len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// Suggest returns the country closest to input by edit distance. ok is
// false when the closest match needs more than max(2, len/3) edits.
func (c *Countries) Suggest(input string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(c.names) == 0 {
		return "", false
	}

	best, bestDist := -1, 0
	for i, l := range c.lower {
		d := levenshtein.ComputeDistance(input, l)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}

	if bestDist > max(2, len(input)/3) {
		return "", false
	}
	return c.names[best], true
}
