// Package filter evaluates expr-lang expressions against pokemon records.
//
// Expressions see the fields Name, ID, Types, Height (dm), Weight (kg),
// BaseExperience, Abilities and Detailed, plus the helpers hasType,
// hasAbility, contains, startsWith, endsWith, lower and upper:
//
//	hasType("fire") and Weight > 50
//	startsWith(Name, "char") or BaseExperience >= 200
//
// Stats are only known for detail records; list items evaluate with zero
// values and Detailed == false.
package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/pokedex/pokeapi"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.extra, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{extra: make(map[string]any)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type exprCompiler struct {
	extra map[string]any
	cache *programCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Type-check against the environment of an empty record
	program, err := expr.Compile(expression,
		expr.Env(runtimeEnvironment(pokeapi.Pokemon{}, c.extra)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		extra:      c.extra,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether p matches. Runtime errors count as no match.
func (f *exprFilter) Evaluate(p pokeapi.Pokemon) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(p, f.extra))
	if err != nil {
		return false
	}
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// CompileFilter compiles expression without caching
func CompileFilter(expression string) (CompiledFilter, error) {
	return NewExprCompiler().Compile(expression)
}

func runtimeEnvironment(p pokeapi.Pokemon, extra map[string]any) map[string]any {
	env := make(map[string]any, 24)

	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	stats := pokeapi.Stats{Types: []string{}, Abilities: []string{}}
	if p.Stats != nil {
		stats = *p.Stats
	}

	env["hasType"] = containsFold(stats.Types)
	env["hasAbility"] = containsFold(stats.Abilities)

	env["Name"] = p.Name
	env["ID"] = p.ID
	env["Detailed"] = p.Stats != nil
	env["Types"] = stats.Types
	env["Height"] = stats.Height
	env["Weight"] = stats.Weight
	env["BaseExperience"] = stats.BaseExperience
	env["Abilities"] = stats.Abilities

	maps.Copy(env, extra)
	return env
}

func containsFold(values []string) func(string) bool {
	lower := make([]string, len(values))
	for i, v := range values {
		lower[i] = strings.ToLower(v)
	}
	return func(v string) bool {
		return slices.Contains(lower, strings.ToLower(v))
	}
}
