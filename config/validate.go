package config

import (
	"strings"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/output"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrap(err, "output.format")
	}
	if c.Output.Format == string(output.Files) && c.Output.Dir == "" {
		return errors.New("output.dir cannot be empty when output.format is files")
	}
	if c.Output.Extension != "" && !strings.HasPrefix(c.Output.Extension, ".") {
		return errors.Newf("output.extension must start with a dot, got %q", c.Output.Extension)
	}

	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path cannot be empty when cache is enabled")
	}

	// 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	return nil
}
