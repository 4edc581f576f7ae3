package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/config"
	"github.com/s0up4200/pokedex/pokeapi"
	"github.com/s0up4200/pokedex/storage"
)

// skipInit marks commands that run without configuration or clients
const skipInit = "skip-init"

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	apiClient *pokeapi.Client
	store     *storage.Local

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Browse, search and export Pokémon from PokéAPI",
	Long: `pokedex is a CLI and JSON service over the public PokéAPI.
It pages through the catalog, searches by name or id, shows detail records,
filters pages with expressions, exports CSV and records registration forms.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
}

// SetVersion sets the version reported by the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration and creates the API client and storage
func initializeApp(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[skipInit]; ok {
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	apiClient, err = pokeapi.NewClient(cfg.API.URL, logger,
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithUserAgent(userAgent()),
		pokeapi.WithCacheSize(cfg.API.CacheSize),
		pokeapi.WithSpriteTemplate(cfg.API.SpriteTemplate),
	)
	if err != nil {
		return fmt.Errorf("failed to create PokéAPI client: %w", err)
	}

	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	store = storage.NewLocal(backend, logger)

	logger.Debug().
		Str("api", apiClient.BaseURL()).
		Str("storage", cfg.Storage.Backend).
		Msg("Initialized")

	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

func userAgent() string {
	if cfg != nil && cfg.API.UserAgent != "" {
		return cfg.API.UserAgent + "/" + version
	}
	return "pokedex/" + version
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
