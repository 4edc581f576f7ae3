package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/catalog"
	"github.com/s0up4200/pokedex/filter"
	"github.com/s0up4200/pokedex/urlstate"
)

var (
	browsePage    int
	browseDetails string
	browseLink    string
	filterExpr    string
	preset        string
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Show one page of the catalog",
	Long: `Show one page of the catalog, optionally with a selected pokemon.
A shared link query such as "page=3&details=pikachu" can be opened with --link.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVarP(&browsePage, "page", "p", 0, "page number (default from link, else 1)")
	browseCmd.Flags().StringVarP(&browseDetails, "details", "d", "", "pokemon to show in detail")
	browseCmd.Flags().StringVarP(&browseLink, "link", "l", "", "query string of a shared link")
	browseCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the page")
	browseCmd.Flags().StringVar(&preset, "preset", "", "use a preset filter from config")
}

func newCoordinator(state *urlstate.State) *catalog.Coordinator {
	return catalog.New(apiClient, state, logger, catalog.Options{
		Storage:           store,
		SpriteTemplate:    apiClient.SpriteTemplate(),
		EnrichConcurrency: cfg.API.Concurrency,
	})
}

func runBrowse(cmd *cobra.Command, args []string) error {
	state, err := urlstate.New(strings.TrimPrefix(browseLink, "?"))
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	if browsePage > 0 {
		state.SetPage(browsePage)
	}
	if browseDetails != "" {
		state.SetSelectedPokemon(browseDetails)
	}

	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	c := newCoordinator(state)
	defer c.Close()

	ctx := cmd.Context()
	c.Sync(ctx)
	view := c.View()

	if expression == "" {
		printView(os.Stdout, view, state.Encode())
		return nil
	}

	manager, err := newFilterManager()
	if err != nil {
		return err
	}

	items, err := c.Enrich(ctx, view.Results)
	if err != nil {
		return fmt.Errorf("failed to load details: %w", err)
	}
	matches, err := manager.Apply(ctx, expression, items)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Info().Str("filter", expression).Int("matches", len(matches)).Msg("Filtered page")
	view.Results = matches
	printView(os.Stdout, view, state.Encode())
	return nil
}

func newFilterManager() (*filter.Manager, error) {
	manager := filter.NewManager()
	if err := manager.RegisterFilters(cfg.Filter.Presets); err != nil {
		return nil, fmt.Errorf("invalid filter preset: %w", err)
	}
	return manager, nil
}

// getFilterExpression returns the filter flag, else the named preset
func getFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filter.Presets[preset]; ok {
			return expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}
