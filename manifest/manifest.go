// Package manifest decodes declaration manifests: the host front end's
// description of the declarations in a compilation unit, written as YAML,
// TOML or JSON.
package manifest

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/model"
)

// Format is a manifest encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrInvalidManifest, "%s: unknown manifest extension", path),
		"use .yaml, .yml, .toml or .json")
}

// Decode reads one manifest. Unknown keys are rejected so a misspelt
// field does not silently drop a declaration's markers.
func Decode(data []byte, f Format) (model.RawUnit, error) {
	var u model.RawUnit
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&u); err != nil {
			return model.RawUnit{}, errors.Wrap(errors.ErrInvalidManifest, err.Error())
		}
	case TOML:
		md, err := toml.Decode(string(data), &u)
		if err != nil {
			return model.RawUnit{}, errors.Wrap(errors.ErrInvalidManifest, err.Error())
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return model.RawUnit{}, errors.Wrapf(errors.ErrInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&u); err != nil {
			return model.RawUnit{}, errors.Wrap(errors.ErrInvalidManifest, err.Error())
		}
	default:
		return model.RawUnit{}, errors.Newf("unsupported manifest format %q", f)
	}
	return u, nil
}

// Encode writes a unit in the given format; `pkgen` uses it to convert
// manifests and tests use it to build fixtures.
func Encode(u model.RawUnit, f Format) ([]byte, error) {
	switch f {
	case YAML:
		return yaml.Marshal(u)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(u); err != nil {
			return nil, errors.Wrap(err, "encode toml")
		}
		return buf.Bytes(), nil
	case JSON:
		return json.MarshalIndent(u, "", "  ")
	}
	return nil, errors.Newf("unsupported manifest format %q", f)
}
