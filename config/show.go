package config

import (
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/patternkit/errors"
)

// Marshal renders the configuration for `pkgen config show`
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "", "toml":
		b, err := toml.Marshal(c)
		return b, errors.Wrap(err, "encode toml")
	case "yaml":
		b, err := yaml.Marshal(c)
		return b, errors.Wrap(err, "encode yaml")
	case "json":
		b, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encode json")
		}
		return append(b, '\n'), nil
	}
	return nil, errors.Newf("unknown config format %q (supported: toml, yaml, json)", format)
}
