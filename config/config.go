// Package config reads pkgen settings with viper: defaults, then the user
// file ~/.pkgen/config.toml, then the nearest pkgen.toml found walking up
// from the working directory, then PKGEN_* environment variables.
package config

// Config is the resolved pkgen configuration
type Config struct {
	Output   OutputConfig   `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Cache    CacheConfig    `mapstructure:"cache" toml:"cache" yaml:"cache" json:"cache"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics" yaml:"metrics" json:"metrics"`
	Generate GenerateConfig `mapstructure:"generate" toml:"generate" yaml:"generate" json:"generate"`
}

// OutputConfig controls where and how documents are written
type OutputConfig struct {
	Dir       string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	Format    string `mapstructure:"format" toml:"format" yaml:"format" json:"format"` // files, txtar or json
	Extension string `mapstructure:"extension" toml:"extension" yaml:"extension" json:"extension"`
	// Prune removes generated files in Dir that the pass no longer produces
	Prune bool `mapstructure:"prune" toml:"prune" yaml:"prune" json:"prune"`
}

// CacheConfig configures the SQLite generation cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
}

// WatchConfig configures `pkgen watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// MetricsConfig configures the Prometheus textfile export; empty File disables it
type MetricsConfig struct {
	File string `mapstructure:"file" toml:"file" yaml:"file" json:"file"`
}

// GenerateConfig tunes how pass results turn into exit codes
type GenerateConfig struct {
	FailOnWarning bool `mapstructure:"fail_on_warning" toml:"fail_on_warning" yaml:"fail_on_warning" json:"fail_on_warning"`
}

// File names searched for
const (
	ProjectFile = "pkgen.toml"
	UserDir     = ".pkgen"
	UserFile    = "config.toml"
)
