package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "Generated")
	v.SetDefault("output.format", "files")
	v.SetDefault("output.extension", ".cs")
	v.SetDefault("output.prune", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", ".pkgen/cache.db")

	v.SetDefault("watch.debounce_ms", 200) // editors write a file in several events

	v.SetDefault("metrics.file", "")

	v.SetDefault("generate.fail_on_warning", false)
}
