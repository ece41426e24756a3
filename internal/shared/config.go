package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API        APIConfig        `toml:"api"`
	Database   DatabaseConfig   `toml:"database"`
	History    HistoryConfig    `toml:"history"`
	Validation ValidationConfig `toml:"validation"`
	Guide      GuideConfig      `toml:"guide"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig points the client at the recommendation backend.
type APIConfig struct {
	BaseURL         string `toml:"base_url"`
	Timeout         int    `toml:"timeout"`
	GeneratePerHour int    `toml:"generate_per_hour"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// HistoryConfig bounds the recent history lists.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// ValidationConfig controls debounced playlist URL lookups.
type ValidationConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// GuideConfig controls the side-by-side guided flows.
type GuideConfig struct {
	ScreenWidth       int `toml:"screen_width"`
	ScreenHeight      int `toml:"screen_height"`
	PollIntervalMS    int `toml:"poll_interval_ms"`
	AutoSubmitDelayMS int `toml:"auto_submit_delay_ms"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// RequestTimeout returns the API timeout, zero meaning none.
func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Debounce returns the validation quiet period.
func (c ValidationConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// PollInterval returns the clipboard polling interval.
func (c GuideConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// AutoSubmitDelay returns the delay between clipboard detection and submission.
func (c GuideConfig) AutoSubmitDelay() time.Duration {
	return time.Duration(c.AutoSubmitDelayMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays MIXTAPE_* variables, loading a .env file first when one exists.
func (c *Config) ApplyEnv() {
	// .env is optional
	_ = godotenv.Load()

	if value := os.Getenv("MIXTAPE_API_URL"); value != "" {
		c.API.BaseURL = value
	}
	if value := os.Getenv("MIXTAPE_DB_PATH"); value != "" {
		c.Database.Path = value
	}
	if value := os.Getenv("MIXTAPE_LOG_LEVEL"); value != "" {
		c.Log.Level = value
	}
	if value := os.Getenv("MIXTAPE_GENERATE_PER_HOUR"); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			c.API.GeneratePerHour = n
		}
	}
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("%w: history.limit must be positive", ErrInvalidConfig)
	}
	if c.API.Timeout < 0 || c.API.GeneratePerHour < 0 {
		return fmt.Errorf("%w: api values must not be negative", ErrInvalidConfig)
	}
	if c.Guide.ScreenWidth <= 0 || c.Guide.ScreenHeight <= 0 {
		return fmt.Errorf("%w: guide screen size must be positive", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
