package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:         "https://pokeapi.co/api/v2",
			Timeout:     30 * time.Second,
			CacheSize:   10,
			Concurrency: 5,
		},
		Storage:      StorageConfig{Backend: "memory"},
		Registration: RegistrationConfig{MaxImageSize: 1024},
		Logging:      LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api:
  url: http://localhost:9000/api/v2
  timeout: 5s
  cache_size: 16
storage:
  backend: sqlite
  path: /tmp/pokedex.db
filter:
  presets:
    fire: hasType("fire")
    heavy: Weight > 100
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api/v2", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 16, cfg.API.CacheSize)
	assert.Equal(t, 5, cfg.API.Concurrency)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/pokedex.db", cfg.Storage.Path)
	assert.Equal(t, `hasType("fire")`, cfg.Filter.Presets["fire"])
	assert.Len(t, cfg.Filter.Presets, 2)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Registration.PersistDelay)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "api:\n  url: http://localhost:9000/api/v2\n")
	t.Setenv("POKEDEX_API_URL", "http://example.test/api/v2")
	t.Setenv("POKEDEX_STORAGE_BACKEND", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/api/v2", cfg.API.URL)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:    "relative api url",
			modify:  func(c *Config) { c.API.URL = "pokeapi.co" },
			wantErr: "api.url",
		},
		{
			name:    "empty api url",
			modify:  func(c *Config) { c.API.URL = "" },
			wantErr: "api.url is required",
		},
		{
			name:    "sprite template without placeholder",
			modify:  func(c *Config) { c.API.SpriteTemplate = "https://img.test/a.png" },
			wantErr: "sprite_template",
		},
		{
			name:    "zero concurrency",
			modify:  func(c *Config) { c.API.Concurrency = 0 },
			wantErr: "api.concurrency",
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: "invalid storage backend",
		},
		{
			name:    "file backend without path",
			modify:  func(c *Config) { c.Storage.Backend = "file" },
			wantErr: "storage.path",
		},
		{
			name:    "invalid format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name:    "negative persist delay",
			modify:  func(c *Config) { c.Registration.PersistDelay = -time.Second },
			wantErr: "persist_delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should mention %q", err, tt.wantErr)
		})
	}
}
