package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/catalog"
	"github.com/s0up4200/pokedex/pokeapi"
	"github.com/s0up4200/pokedex/urlstate"
)

var searchLast bool

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [name or id]",
	Short: "Search a pokemon by exact name or id",
	Long: `Search a pokemon by exact name or id. The term is remembered; run
with --last to repeat the previous search. An empty term shows the first page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchLast, "last", false, "repeat the last search")
}

func runSearch(cmd *cobra.Command, args []string) error {
	state, err := urlstate.New("")
	if err != nil {
		return err
	}

	c := newCoordinator(state)
	defer c.Close()

	query := strings.Join(args, " ")
	if searchLast {
		query = c.LastSearch()
		if query == "" {
			return fmt.Errorf("no previous search")
		}
		logger.Info().Str("query", query).Msg("Repeating last search")
	}

	c.SearchPokemon(cmd.Context(), query)
	view := c.View()

	printView(os.Stdout, view, state.Encode())
	if view.Mode == catalog.ModeSearch && len(view.Results) == 1 {
		fmt.Println()
		printPokemon(os.Stdout, view.Results[0])
	}
	return nil
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <name or id>",
	Short: "Show the detail record of a pokemon",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := pokeapi.FetchPokemon(cmd.Context(), apiClient, args[0])
	if err != nil {
		logger.Debug().Err(err).Str("pokemon", args[0]).Msg("Lookup failed")
		return errors.New(pokeapi.ErrorMessage(err, args[0]))
	}

	printPokemon(os.Stdout, p)
	return nil
}
