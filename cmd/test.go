package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/pokeapi"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to PokéAPI",
	Long:  `Test the connection to PokéAPI and display basic catalog information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to PokéAPI at %s...\n", apiClient.BaseURL())

	ctx := cmd.Context()
	if err := apiClient.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %s", pokeapi.ErrorMessage(err, ""))
	}
	fmt.Println("✓ Connection successful!")

	list, err := apiClient.ListPokemon(ctx, 0, 1)
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	fmt.Printf("\nCatalog:\n")
	fmt.Printf("- Total pokemon: %d\n", list.Count)
	fmt.Printf("- Storage backend: %s\n", cfg.Storage.Backend)
	if len(cfg.Filter.Presets) > 0 {
		fmt.Printf("- Filter presets: %d\n", len(cfg.Filter.Presets))
	}

	return nil
}
