// Package config defines the grid engine's configuration surface: the
// constructor options a table accepts, loaded from defaults, a YAML file,
// environment variables, and CLI flags via Viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete set of options recognized when constructing a
// table (spec.md §6 "Constructor config").
type Config struct {
	Table     TableConfig     `mapstructure:"table"`
	Server    ServerConfig    `mapstructure:"server"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// TableConfig controls sizing and column behavior.
type TableConfig struct {
	// TableWidth is the rendered width in pixels, or 0 to mean "100%".
	TableWidth int `mapstructure:"table_width"`
	// TableHeight is the rendered height in pixels.
	TableHeight int `mapstructure:"table_height"`
	// HeaderHeight is the fixed pixel height of the header row.
	HeaderHeight int `mapstructure:"header_height"`
	// SummaryHeight is the fixed pixel height of the summary row.
	SummaryHeight int `mapstructure:"summary_height"`
	// RowHeight is the fixed pixel height used by the Scroller.
	RowHeight int `mapstructure:"row_height"`
	// FrozenColumns is the initial frozen-column count (left side).
	FrozenColumns int `mapstructure:"frozen_columns"`
	// ShowSummary enables the summary row.
	ShowSummary bool `mapstructure:"show_summary"`
	// TableID names the persistence slot for this table's saved overrides.
	TableID string `mapstructure:"table_id"`
}

// ServerConfig tunes the paged-remote data strategy.
type ServerConfig struct {
	// PageSize is the number of rows per fetched page.
	PageSize int `mapstructure:"page_size"`
	// BufferRows is the number of extra rows rendered on each side of the
	// visible window.
	BufferRows int `mapstructure:"buffer_rows"`
	// MaxCachedPages bounds the paged-remote LRU page cache.
	MaxCachedPages int `mapstructure:"max_cached_pages"`
}

// BootstrapConfig tunes the bootstrap policy's client/server decision.
type BootstrapConfig struct {
	// ClientSideMaxRows is the row-count threshold below which the engine
	// prefers the in-memory data strategy over paged-remote.
	ClientSideMaxRows int `mapstructure:"client_side_max_rows"`
}

// LoggingConfig controls the engine's structured logger.
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// Default returns a Config populated with the engine's defaults.
func Default() *Config {
	return &Config{
		Table: TableConfig{
			TableWidth:    0,
			TableHeight:   600,
			HeaderHeight:  36,
			SummaryHeight: 36,
			RowHeight:     32,
			FrozenColumns: 0,
			ShowSummary:   false,
			TableID:       "default",
		},
		Server: ServerConfig{
			PageSize:       100,
			BufferRows:     10,
			MaxCachedPages: 20,
		},
		Bootstrap: BootstrapConfig{
			ClientSideMaxRows: 10000,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// SetDefaults registers default values with viper so they are available
// even without a config file.
func SetDefaults() {
	d := Default()

	viper.SetDefault("table.table_width", d.Table.TableWidth)
	viper.SetDefault("table.table_height", d.Table.TableHeight)
	viper.SetDefault("table.header_height", d.Table.HeaderHeight)
	viper.SetDefault("table.summary_height", d.Table.SummaryHeight)
	viper.SetDefault("table.row_height", d.Table.RowHeight)
	viper.SetDefault("table.frozen_columns", d.Table.FrozenColumns)
	viper.SetDefault("table.show_summary", d.Table.ShowSummary)
	viper.SetDefault("table.table_id", d.Table.TableID)

	viper.SetDefault("server.page_size", d.Server.PageSize)
	viper.SetDefault("server.buffer_rows", d.Server.BufferRows)
	viper.SetDefault("server.max_cached_pages", d.Server.MaxCachedPages)

	viper.SetDefault("bootstrap.client_side_max_rows", d.Bootstrap.ClientSideMaxRows)

	viper.SetDefault("logging.enabled", d.Logging.Enabled)
	viper.SetDefault("logging.level", d.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vgrid")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vgrid"
	}
	return filepath.Join(home, ".config", "vgrid")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
