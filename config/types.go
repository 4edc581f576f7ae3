package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API          APIConfig          `mapstructure:"api"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Server       ServerConfig       `mapstructure:"server"`
	Filter       FilterConfig       `mapstructure:"filter"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// APIConfig holds PokéAPI connection details
type APIConfig struct {
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	CacheSize      int           `mapstructure:"cache_size"`
	SpriteTemplate string        `mapstructure:"sprite_template"`
	Concurrency    int           `mapstructure:"concurrency"`
}

// StorageConfig selects the local persistence backend
type StorageConfig struct {
	// Backend is one of memory, file or sqlite
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ServerConfig configures the JSON service
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// FilterConfig contains named filter presets
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// RegistrationConfig configures the submission log
type RegistrationConfig struct {
	PersistDelay time.Duration `mapstructure:"persist_delay"`
	MaxImageSize int64         `mapstructure:"max_image_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
