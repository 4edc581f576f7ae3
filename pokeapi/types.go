package pokeapi

// ItemKind distinguishes compact list entries from fully loaded records
type ItemKind string

const (
	// KindListItem is a catalog page entry that only carries id, name and image
	KindListItem ItemKind = "list-item"
	// KindDetail is a record parsed from the full details endpoint
	KindDetail ItemKind = "full-detail"
)

// NamedResource is a name/url pair as returned by list endpoints
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse represents the paginated response from the pokemon endpoint
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// HasMorePages checks if there are more pages to fetch
func (lr *ListResponse) HasMorePages() bool {
	return lr.Next != nil && *lr.Next != ""
}

// TypeSlot is one entry of a pokemon's types array
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is one entry of a pokemon's abilities array
type AbilitySlot struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  NamedResource `json:"ability"`
}

// Sprites holds the image urls of a pokemon. Any of them may be null.
type Sprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
	BackDefault  *string `json:"back_default"`
	Other        struct {
		OfficialArtwork struct {
			FrontDefault *string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

// Details is the raw payload of GET /pokemon/{nameOrId}
type Details struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Types          []TypeSlot    `json:"types"`
	Abilities      []AbilitySlot `json:"abilities"`
	Sprites        Sprites       `json:"sprites"`
}

// TypeNames returns the type names in slot order
func (d *Details) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// AbilityNames returns the ability names in slot order
func (d *Details) AbilityNames() []string {
	names := make([]string, 0, len(d.Abilities))
	for _, a := range d.Abilities {
		names = append(names, a.Ability.Name)
	}
	return names
}

// Stats is the structured form of the values embedded in a detail description
type Stats struct {
	Types          []string `json:"types"`
	Height         int      `json:"height"`
	Weight         float64  `json:"weight"`
	BaseExperience int      `json:"base_experience"`
	Abilities      []string `json:"abilities"`
}

// Pokemon is the normalized record used by the catalog and its consumers
type Pokemon struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Kind        ItemKind `json:"kind"`
	Stats       *Stats   `json:"stats,omitempty"`
}

// IsListItem reports whether p came from a list page rather than a detail fetch
func (p *Pokemon) IsListItem() bool {
	return p.Kind == KindListItem
}

// HasImage reports whether an image url is known
func (p *Pokemon) HasImage() bool {
	return p.Image != ""
}

// Field is a label/value pair recovered from a description string
type Field struct {
	Label string
	Value string
}
