package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/pokedex/pokeapi"
)

// ErrNoIDs is returned when an export is requested without ids
var ErrNoIDs = errors.New("no pokemon ids to export")

// DefaultConcurrency bounds parallel detail fetches
const DefaultConcurrency = 5

// Exporter fetches details for a set of ids and renders them as CSV
type Exporter struct {
	api         pokeapi.API
	logger      zerolog.Logger
	concurrency int
}

// NewExporter creates an Exporter. A concurrency below 1 uses DefaultConcurrency.
func NewExporter(api pokeapi.API, logger zerolog.Logger, concurrency int) *Exporter {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Exporter{api: api, logger: logger, concurrency: concurrency}
}

// Records fetches the detail record of every id, keeping input order.
// The first failed fetch cancels the rest and is returned.
func (e *Exporter) Records(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	records := make([]Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			key := strings.ToLower(strings.TrimSpace(id))
			details, err := e.api.GetPokemon(gctx, key)
			if err != nil {
				return fmt.Errorf("failed to fetch pokemon %q: %w", id, err)
			}
			records[i] = RecordFromDetails(details)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug().Int("count", len(records)).Msg("Fetched export records")
	return records, nil
}

// Export fetches ids and returns the CSV document
func (e *Exporter) Export(ctx context.Context, ids []string) (string, error) {
	records, err := e.Records(ctx, ids)
	if err != nil {
		return "", err
	}
	return BuildCSV(records), nil
}

// IDs converts numeric ids to lookup keys
func IDs(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}
