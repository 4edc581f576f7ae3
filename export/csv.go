// Package export renders pokemon details as CSV.
package export

import (
	"strconv"
	"strings"

	"github.com/s0up4200/pokedex/pokeapi"
)

// Header is the first line of every export
var Header = []string{"id", "name", "height", "weight", "base_experience", "types"}

// TypeSeparator joins multiple type names in the types column
const TypeSeparator = "|"

// Record is one exported row. Height and weight are the raw API values
// (decimetres and hectograms).
type Record struct {
	ID             int
	Name           string
	Height         int
	Weight         int
	BaseExperience int
	Types          []string
}

// RecordFromDetails builds a row from a raw detail payload
func RecordFromDetails(d *pokeapi.Details) Record {
	return Record{
		ID:             d.ID,
		Name:           d.Name,
		Height:         d.Height,
		Weight:         d.Weight,
		BaseExperience: d.BaseExperience,
		Types:          d.TypeNames(),
	}
}

func (r Record) fields() []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Name,
		strconv.Itoa(r.Height),
		strconv.Itoa(r.Weight),
		strconv.Itoa(r.BaseExperience),
		strings.Join(r.Types, TypeSeparator),
	}
}

// BuildCSV renders records with a header line. Every value is quoted and
// internal quotes are doubled. Lines end with \n.
func BuildCSV(records []Record) string {
	var b strings.Builder
	writeLine(&b, Header)
	for _, r := range records {
		writeLine(&b, r.fields())
	}
	return b.String()
}

func writeLine(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(v))
	}
	b.WriteByte('\n')
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
