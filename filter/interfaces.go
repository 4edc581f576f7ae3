package filter

import (
	"context"

	"github.com/s0up4200/pokedex/pokeapi"
)

// Filter decides whether a pokemon matches
type Filter interface {
	// Evaluate checks if a pokemon matches the filter criteria
	Evaluate(p pokeapi.Pokemon) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator applies a filter to a list of pokemon
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, items []pokeapi.Pokemon) ([]pokeapi.Pokemon, error)
}
