package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/s0up4200/pokedex/catalog"
	"github.com/s0up4200/pokedex/pokeapi"
)

func printView(w io.Writer, v catalog.View, query string) {
	if v.List.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", v.List.Error)
	}

	if len(v.Results) == 0 {
		if v.List.Error == "" {
			fmt.Fprintln(w, "No pokemon found.")
		}
	} else {
		switch v.Mode {
		case catalog.ModeSearch:
			fmt.Fprintf(w, "\nSearch result for %q:\n", v.Search.Query)
		default:
			fmt.Fprintf(w, "\nPage %d of %d (%d pokemon):\n", v.CurrentPage, v.TotalPages, v.TotalCount)
		}
		fmt.Fprintln(w, strings.Repeat("-", 60))
		printList(w, v.Results)
	}

	if v.Selection.Error != "" {
		fmt.Fprintf(w, "\nError: %s\n", v.Selection.Error)
	}
	if v.Selected != nil {
		fmt.Fprintln(w)
		printPokemon(w, *v.Selected)
	}

	if query != "" {
		fmt.Fprintf(w, "\nLink: ?%s\n", query)
	}
}

func printList(w io.Writer, items []pokeapi.Pokemon) {
	for _, p := range items {
		fmt.Fprintf(w, "• #%-5d %s", p.ID, p.Name)
		if p.Stats != nil && len(p.Stats.Types) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(p.Stats.Types, ", "))
		}
		fmt.Fprintln(w)
	}
}

func printPokemon(w io.Writer, p pokeapi.Pokemon) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Name, p.ID)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, f := range pokeapi.ParseDescription(p.Description) {
		fmt.Fprintf(w, "  %-16s %s\n", f.Label+":", f.Value)
	}
	if p.HasImage() {
		fmt.Fprintf(w, "  %-16s %s\n", "Image:", p.Image)
	}
}
