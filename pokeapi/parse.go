package pokeapi

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSpriteTemplate is the image url pattern for list items, %d is the pokemon id
const DefaultSpriteTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"

// ListItemHint is the description suffix shown on compact catalog cards
const ListItemHint = "Click to view details"

// Description separators. Consumers split on these, so they must not change.
const (
	fieldSeparator = " | "
	labelSeparator = ":"
)

// Description labels in the order they appear
const (
	LabelTypes          = "Types"
	LabelHeight         = "Height"
	LabelWeight         = "Weight"
	LabelBaseExperience = "Base Experience"
	LabelAbilities      = "Abilities"
)

// Capitalize upper-cases the first letter of name
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// ParseDetails converts a raw details payload into a detail record
func ParseDetails(details *Details) Pokemon {
	stats := &Stats{
		Types:          details.TypeNames(),
		Height:         details.Height,
		Weight:         float64(details.Weight) / 10,
		BaseExperience: details.BaseExperience,
		Abilities:      details.AbilityNames(),
	}

	return Pokemon{
		ID:          details.ID,
		Name:        Capitalize(details.Name),
		Description: FormatDescription(stats),
		Image:       detailImage(details.Sprites),
		Kind:        KindDetail,
		Stats:       stats,
	}
}

// FormatDescription renders stats as the pipe-delimited, colon-labelled summary
func FormatDescription(stats *Stats) string {
	parts := []string{
		LabelTypes + labelSeparator + " " + strings.Join(stats.Types, ", "),
		LabelHeight + labelSeparator + " " + strconv.Itoa(stats.Height) + "dm",
		LabelWeight + labelSeparator + " " + strconv.FormatFloat(stats.Weight, 'f', -1, 64) + "kg",
		LabelBaseExperience + labelSeparator + " " + strconv.Itoa(stats.BaseExperience),
		LabelAbilities + labelSeparator + " " + strings.Join(stats.Abilities, ", "),
	}
	return strings.Join(parts, fieldSeparator)
}

// ParseList converts a list page into list items using the default sprite template
func ParseList(list *ListResponse) []Pokemon {
	return ParseListWithTemplate(list, DefaultSpriteTemplate)
}

// ParseListWithTemplate converts a list page into list items. The id of each
// item comes from the trailing segment of its url, falling back to index+1.
func ParseListWithTemplate(list *ListResponse, spriteTemplate string) []Pokemon {
	if list == nil {
		return []Pokemon{}
	}

	items := make([]Pokemon, 0, len(list.Results))
	for i, res := range list.Results {
		id, ok := idFromURL(res.URL)
		if !ok {
			id = i + 1
		}

		items = append(items, Pokemon{
			ID:          id,
			Name:        Capitalize(res.Name),
			Description: fmt.Sprintf("Pokemon #%d - %s", id, ListItemHint),
			Image:       fmt.Sprintf(spriteTemplate, id),
			Kind:        KindListItem,
		})
	}

	return items
}

// ParseDescription splits a detail description back into label/value pairs
func ParseDescription(description string) []Field {
	if strings.TrimSpace(description) == "" {
		return nil
	}

	var fields []Field
	for _, part := range strings.Split(description, fieldSeparator) {
		label, value, found := strings.Cut(part, labelSeparator)
		if !found {
			continue
		}
		fields = append(fields, Field{
			Label: strings.TrimSpace(label),
			Value: strings.TrimSpace(value),
		})
	}

	return fields
}

func idFromURL(rawURL string) (int, bool) {
	trimmed := strings.TrimRight(rawURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0, false
	}

	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func detailImage(s Sprites) string {
	if s.Other.OfficialArtwork.FrontDefault != nil && *s.Other.OfficialArtwork.FrontDefault != "" {
		return *s.Other.OfficialArtwork.FrontDefault
	}
	if s.FrontDefault != nil {
		return *s.FrontDefault
	}
	return ""
}
