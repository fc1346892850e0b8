package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/patternkit/errors"
)

var globalConfig *Config

// Load reads the configuration once per process
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}
	v, err := NewViper()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
}

// LoadWithViper unmarshals and validates the settings of v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path, with
// defaults but without environment variables
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

// NewViper builds a viper instance with every configuration source merged
// in precedence order: defaults < user file < project file < environment.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("PKGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	for _, path := range Files() {
		part := viper.New()
		part.SetConfigFile(path)
		part.SetConfigType("toml")
		if err := part.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := v.MergeConfigMap(part.AllSettings()); err != nil {
			return nil, errors.Wrapf(err, "failed to merge config file %s", path)
		}
	}
	return v, nil
}

// Files lists the configuration files that exist, lowest precedence first
func Files() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		user := filepath.Join(home, UserDir, UserFile)
		if _, err := os.Stat(user); err == nil {
			paths = append(paths, user)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		if project := FindProjectConfig(wd); project != "" {
			paths = append(paths, project)
		}
	}
	return paths
}

// FindProjectConfig searches for pkgen.toml by walking up from dir.
// Returns the path to the first file found, or empty string if none found.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
