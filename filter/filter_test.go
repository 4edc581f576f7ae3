package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/s0up4200/pokedex/pokeapi"
)

func detailed(id int, name string, weight float64, types ...string) pokeapi.Pokemon {
	return pokeapi.Pokemon{
		ID:   id,
		Name: name,
		Kind: pokeapi.KindDetail,
		Stats: &pokeapi.Stats{
			Types:          types,
			Height:         id,
			Weight:         weight,
			BaseExperience: id * 3,
			Abilities:      []string{"blaze", "solar-power"},
		},
	}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasType("fire")`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasType("unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Color == "red"`,
			wantErr:    true,
		},
		{
			name:       "not boolean",
			expression: `Weight + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasType("fire") and Weight > 50 and startsWith(Name, "char")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter == nil {
				t.Fatal("expected filter but got nil")
			}
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	charizard := detailed(6, "Charizard", 90.5, "fire", "flying")
	listItem := pokeapi.Pokemon{ID: 7, Name: "Squirtle", Kind: pokeapi.KindListItem}

	tests := []struct {
		name       string
		expression string
		pokemon    pokeapi.Pokemon
		expected   bool
	}{
		{"has type", `hasType("FIRE")`, charizard, true},
		{"missing type", `hasType("water")`, charizard, false},
		{"has ability", `hasAbility("blaze")`, charizard, true},
		{"weight float", `Weight > 90`, charizard, true},
		{"height", `Height == 6`, charizard, true},
		{"base experience", `BaseExperience >= 18`, charizard, true},
		{"name helpers", `contains(Name, "IZA") and lower(Name) == "charizard"`, charizard, true},
		{"types membership", `"flying" in Types`, charizard, true},
		{"id range", `ID >= 1 and ID <= 9`, charizard, true},
		{"list item has no stats", `Detailed`, listItem, false},
		{"list item type check", `hasType("water")`, listItem, false},
		{"list item by name", `startsWith(Name, "squ")`, listItem, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			if got := filter.Evaluate(tt.pokemon); got != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, got, tt.expression)
			}
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isStarter": func(id int) bool { return id == 1 || id == 4 || id == 7 },
	}))

	filter, err := compiler.Compile(`isStarter(ID)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	if !filter.Evaluate(detailed(4, "Charmander", 8.5, "fire")) {
		t.Error("expected charmander to match")
	}
	if filter.Evaluate(detailed(5, "Charmeleon", 19, "fire")) {
		t.Error("expected charmeleon not to match")
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`hasType("fire")`)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := compiler.Compile(` hasType("fire") `)
	if first != again {
		t.Error("expected cached filter to be reused")
	}

	compiler.Compile(`hasType("water")`)
	compiler.Compile(`hasType("grass")`)
	if compiler.Size() != 2 {
		t.Errorf("expected cache size 2, got %d", compiler.Size())
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("expected empty cache, got %d", compiler.Size())
	}
}

func generateTestPokemon(count int) []pokeapi.Pokemon {
	types := []string{"fire", "water", "grass"}
	items := make([]pokeapi.Pokemon, count)
	for i := range items {
		items[i] = detailed(i+1, fmt.Sprintf("Mon%d", i+1), float64(i%200), types[i%3])
	}
	return items
}

func TestConcurrentEvaluation(t *testing.T) {
	items := generateTestPokemon(1000)

	filter, err := CompileFilter(`hasType("fire") and Weight > 100`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50))
	matches, err := evaluator.Evaluate(context.Background(), filter, items)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	expected := evaluateSequential(filter, items)
	if len(matches) != len(expected) {
		t.Fatalf("expected %d matches, got %d", len(expected), len(matches))
	}
	for i := range expected {
		if matches[i].ID != expected[i].ID {
			t.Fatalf("order mismatch at %d: %d != %d", i, matches[i].ID, expected[i].ID)
		}
	}
}

func TestEvaluateCancelled(t *testing.T) {
	filter, _ := CompileFilter(`Detailed`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConcurrentEvaluator().Evaluate(ctx, filter, generateTestPokemon(10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	err := m.RegisterFilters(map[string]string{
		"heavy": `Weight >= 150`,
		"fire":  `hasType("fire")`,
	})
	if err != nil {
		t.Fatalf("failed to register filters: %v", err)
	}

	if names := m.ListFilters(); strings.Join(names, ",") != "fire,heavy" {
		t.Errorf("unexpected filter names: %v", names)
	}

	items := generateTestPokemon(30)
	ctx := context.Background()

	fire, err := m.EvaluateFilter(ctx, "fire", items)
	if err != nil {
		t.Fatal(err)
	}
	if len(fire) != 10 {
		t.Errorf("expected 10 fire pokemon, got %d", len(fire))
	}

	adhoc, err := m.Apply(ctx, `ID <= 3`, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(adhoc) != 3 {
		t.Errorf("expected 3 matches, got %d", len(adhoc))
	}

	if _, err := m.EvaluateFilter(ctx, "missing", items); !errors.Is(err, ErrFilterNotFound) {
		t.Errorf("expected ErrFilterNotFound, got %v", err)
	}
}

func TestManagerRegisterFiltersAtomic(t *testing.T) {
	m := NewManager()

	err := m.RegisterFilters(map[string]string{
		"ok":  `Detailed`,
		"bad": `hasType(`,
	})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if len(m.ListFilters()) != 0 {
		t.Errorf("expected no filters registered, got %v", m.ListFilters())
	}
}
