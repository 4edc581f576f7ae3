package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/export"
	"github.com/s0up4200/pokedex/registration"
	"github.com/s0up4200/pokedex/server"
)

var serveAddress string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	filters, err := newFilterManager()
	if err != nil {
		return err
	}

	countries := registration.NewCountries(registration.DefaultCountries)
	submissions, persister := openSubmissionLog()
	defer persister.Flush()

	address := cfg.Server.Address
	if serveAddress != "" {
		address = serveAddress
	}

	srv := server.New(server.Config{
		Address:        address,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, server.Deps{
		API:               apiClient,
		Exporter:          export.NewExporter(apiClient, logger, cfg.API.Concurrency),
		Filters:           filters,
		Validator:         registration.NewValidator(countries, cfg.Registration.MaxImageSize),
		Countries:         countries,
		Submissions:       submissions,
		SpriteTemplate:    apiClient.SpriteTemplate(),
		EnrichConcurrency: cfg.API.Concurrency,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
