package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/pokedex/pokeapi"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of concurrent chunks
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the minimum chunk size
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator splits large inputs into chunks evaluated in parallel
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the matching items in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, items []pokeapi.Pokemon) ([]pokeapi.Pokemon, error) {
	if len(items) < e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return evaluateSequential(filter, items), nil
	}

	chunkSize := max(len(items)/e.workerCount, e.batchSize)
	chunks := make([][]pokeapi.Pokemon, (len(items)+chunkSize-1)/chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(items))

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks[i] = evaluateSequential(filter, items[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]pokeapi.Pokemon, 0, len(items)/4)
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	return matches, nil
}

func evaluateSequential(filter CompiledFilter, items []pokeapi.Pokemon) []pokeapi.Pokemon {
	matches := make([]pokeapi.Pokemon, 0, len(items))
	for _, p := range items {
		if filter.Evaluate(p) {
			matches = append(matches, p)
		}
	}
	return matches
}
