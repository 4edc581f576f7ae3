package catalog

import (
	"github.com/s0up4200/pokedex/pokeapi"
)

// ItemsPerPage is the fixed catalog page size
const ItemsPerPage = 20

// Mode tells whether the result set is a catalog page or a single search hit
type Mode string

const (
	// ModeBrowse shows a page of the full catalog
	ModeBrowse Mode = "browse"
	// ModeSearch shows exactly one matched pokemon
	ModeSearch Mode = "search"
)

// Phase is the lifecycle of one concern (list or selection)
type Phase int

const (
	// PhaseIdle means nothing was requested yet, or the state was cleared
	PhaseIdle Phase = iota
	// PhaseLoading means a request is in flight
	PhaseLoading
	// PhaseSuccess means the last request completed
	PhaseSuccess
	// PhaseError means the last request failed
	PhaseError
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name; unknown names decode as PhaseIdle
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*p = PhaseLoading
	case "success":
		*p = PhaseSuccess
	case "error":
		*p = PhaseError
	default:
		*p = PhaseIdle
	}
	return nil
}

// Status tracks one concern. List loading and selection loading each have
// their own Status so a failure in one never overwrites the other.
type Status struct {
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`
}

// IsLoading reports whether a request is in flight
func (s Status) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// SearchState is the last submitted search
type SearchState struct {
	Query      string `json:"query"`
	Normalized string `json:"normalized"`
}

// View is an immutable snapshot of the coordinator
type View struct {
	Results      []pokeapi.Pokemon `json:"results"`
	TotalCount   int               `json:"total_count"`
	TotalPages   int               `json:"total_pages"`
	CurrentPage  int               `json:"current_page"`
	ItemsPerPage int               `json:"items_per_page"`
	Mode         Mode              `json:"mode"`
	Search       SearchState       `json:"search"`
	Selected     *pokeapi.Pokemon  `json:"selected,omitempty"`
	SelectedName string            `json:"selected_name,omitempty"`
	List         Status            `json:"list"`
	Selection    Status            `json:"selection"`
}

// IsLoading reports whether any request is in flight
func (v View) IsLoading() bool {
	return v.List.IsLoading() || v.Selection.IsLoading()
}

// Error returns the list error, or the selection error if the list is fine
func (v View) Error() string {
	if v.List.Error != "" {
		return v.List.Error
	}
	return v.Selection.Error
}

// TotalPages returns ceil(total / ItemsPerPage)
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + ItemsPerPage - 1) / ItemsPerPage
}
