package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/export"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <id or name>...",
	Short: "Export pokemon details as CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write CSV to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	exporter := export.NewExporter(apiClient, logger, cfg.API.Concurrency)

	out, err := exporter.Export(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if exportOutput == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(exportOutput, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	logger.Info().Str("file", exportOutput).Int("count", len(args)).Msg("Exported pokemon")
	return nil
}
