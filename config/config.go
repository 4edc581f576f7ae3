package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// POKEDEX_API_URL or POKEDEX_STORAGE_BACKEND.
const EnvPrefix = "POKEDEX"

// Load loads the configuration. An explicit configPath must exist; without
// one, the standard locations are searched and defaults apply when no file
// is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pokedex"))
		}
		v.AddConfigPath("/etc/pokedex/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultDataDir returns the directory used for local state
func DefaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".pokedex")
	}
	return ".pokedex"
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "https://pokeapi.co/api/v2")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.user_agent", "pokedex")
	v.SetDefault("api.cache_size", 256)
	v.SetDefault("api.sprite_template", "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png")
	v.SetDefault("api.concurrency", 5)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", filepath.Join(DefaultDataDir(), "state.json"))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("registration.persist_delay", 500*time.Millisecond)
	v.SetDefault("registration.max_image_size", 2*1024*1024)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if u, err := url.Parse(cfg.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.url must be an absolute URL: %s", cfg.API.URL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if cfg.API.CacheSize < 0 {
		return fmt.Errorf("api.cache_size must not be negative")
	}
	if cfg.API.SpriteTemplate != "" && !strings.Contains(cfg.API.SpriteTemplate, "%d") {
		return fmt.Errorf("api.sprite_template must contain %%d")
	}
	if cfg.API.Concurrency < 1 {
		return fmt.Errorf("api.concurrency must be at least 1")
	}

	switch cfg.Storage.Backend {
	case "memory":
	case "file", "sqlite":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", cfg.Storage.Backend)
		}
	default:
		return fmt.Errorf("invalid storage backend: %s", cfg.Storage.Backend)
	}

	if cfg.Registration.PersistDelay < 0 {
		return fmt.Errorf("registration.persist_delay must not be negative")
	}
	if cfg.Registration.MaxImageSize <= 0 {
		return fmt.Errorf("registration.max_image_size must be positive")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
