package pokeapi

import (
	"context"
	"fmt"
)

// API defines the PokéAPI operations the catalog depends on
type API interface {
	// ListPokemon fetches a single page of the catalog
	ListPokemon(ctx context.Context, offset, limit int) (*ListResponse, error)

	// GetPokemon fetches the full details of a pokemon by name or id
	GetPokemon(ctx context.Context, nameOrID string) (*Details, error)
}

// FetchPokemon fetches and parses a detail record, translating a 404 into
// ErrPokemonNotFound so callers can branch with errors.Is.
func FetchPokemon(ctx context.Context, api API, nameOrID string) (Pokemon, error) {
	details, err := api.GetPokemon(ctx, nameOrID)
	if err != nil {
		if IsNotFound(err) {
			return Pokemon{}, fmt.Errorf("%w: %w", ErrPokemonNotFound, err)
		}
		return Pokemon{}, err
	}
	return ParseDetails(details), nil
}
