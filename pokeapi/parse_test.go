package pokeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func bulbasaurDetails() *Details {
	d := &Details{
		ID:             1,
		Name:           "bulbasaur",
		Height:         7,
		Weight:         69,
		BaseExperience: 64,
		Types: []TypeSlot{
			{Slot: 1, Type: NamedResource{Name: "grass"}},
			{Slot: 2, Type: NamedResource{Name: "poison"}},
		},
		Abilities: []AbilitySlot{
			{Slot: 1, Ability: NamedResource{Name: "overgrow"}},
			{Slot: 3, IsHidden: true, Ability: NamedResource{Name: "chlorophyll"}},
		},
	}
	d.Sprites.FrontDefault = strPtr("https://img/1.png")
	return d
}

func TestParseList(t *testing.T) {
	list := &ListResponse{
		Count: 1,
		Results: []NamedResource{
			{Name: "bulbasaur", URL: "https://x/pokemon/1/"},
		},
	}

	items := ParseList(list)
	require.Len(t, items, 1)

	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "Bulbasaur", items[0].Name)
	assert.Equal(t, "Pokemon #1 - Click to view details", items[0].Description)
	assert.Equal(t, "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png", items[0].Image)
	assert.Equal(t, KindListItem, items[0].Kind)
	assert.True(t, items[0].IsListItem())
	assert.Nil(t, items[0].Stats)
}

func TestParseListIDFallback(t *testing.T) {
	list := &ListResponse{
		Count: 3,
		Results: []NamedResource{
			{Name: "a", URL: "https://x/pokemon/25"},
			{Name: "b", URL: "https://x/pokemon/not-a-number/"},
			{Name: "c", URL: ""},
		},
	}

	items := ParseListWithTemplate(list, "img/%d.png")
	require.Len(t, items, 3)
	assert.Equal(t, 25, items[0].ID)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, 3, items[2].ID)
	assert.Equal(t, "img/2.png", items[1].Image)
}

func TestParseListNil(t *testing.T) {
	assert.Empty(t, ParseList(nil))
}

func TestParseDetails(t *testing.T) {
	p := ParseDetails(bulbasaurDetails())

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Bulbasaur", p.Name)
	assert.Equal(t, KindDetail, p.Kind)
	assert.Equal(t, "https://img/1.png", p.Image)
	assert.Equal(t,
		"Types: grass, poison | Height: 7dm | Weight: 6.9kg | Base Experience: 64 | Abilities: overgrow, chlorophyll",
		p.Description)

	require.NotNil(t, p.Stats)
	assert.Equal(t, []string{"grass", "poison"}, p.Stats.Types)
	assert.InDelta(t, 6.9, p.Stats.Weight, 0.0001)
	assert.NotContains(t, p.Description, ListItemHint)
}

func TestParseDetailsPrefersArtwork(t *testing.T) {
	d := bulbasaurDetails()
	d.Sprites.Other.OfficialArtwork.FrontDefault = strPtr("https://art/1.png")
	assert.Equal(t, "https://art/1.png", ParseDetails(d).Image)

	d.Sprites = Sprites{}
	assert.Empty(t, ParseDetails(d).Image)
}

func TestDescriptionRoundTrip(t *testing.T) {
	p := ParseDetails(bulbasaurDetails())

	fields := ParseDescription(p.Description)
	want := []Field{
		{Label: LabelTypes, Value: "grass, poison"},
		{Label: LabelHeight, Value: "7dm"},
		{Label: LabelWeight, Value: "6.9kg"},
		{Label: LabelBaseExperience, Value: "64"},
		{Label: LabelAbilities, Value: "overgrow, chlorophyll"},
	}
	assert.Equal(t, want, fields)
}

func TestParseDescriptionSkipsUnlabelled(t *testing.T) {
	assert.Nil(t, ParseDescription("   "))
	assert.Equal(t, []Field{{Label: "A", Value: "1"}}, ParseDescription("A: 1 | garbage"))
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"pikachu": "Pikachu",
		"Mew":     "Mew",
		"":        "",
		"ébra":    "Ébra",
	}
	for in, want := range cases {
		assert.Equal(t, want, Capitalize(in), in)
	}
}
