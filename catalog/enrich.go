package catalog

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/pokedex/pokeapi"
)

// Enrich replaces list items with full detail records, fetching details
// concurrently. Items whose details cannot be fetched are kept as they are.
// The returned slice preserves the input order.
func (c *Coordinator) Enrich(ctx context.Context, items []pokeapi.Pokemon) ([]pokeapi.Pokemon, error) {
	out := make([]pokeapi.Pokemon, len(items))
	copy(out, items)

	if len(items) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.enrichLimit)

	for i, item := range items {
		if !item.IsListItem() {
			continue
		}

		g.Go(func() error {
			key := strings.ToLower(item.Name)
			if item.ID > 0 {
				key = strconv.Itoa(item.ID)
			}

			details, err := c.api.GetPokemon(gctx, key)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int("id", item.ID).
					Str("pokemon", item.Name).
					Msg("Failed to enrich pokemon")
				// Keep the list item and continue with the others
				return nil
			}

			// Each goroutine owns its own index
			out[i] = pokeapi.ParseDetails(details)
			return nil
		})
	}

	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
