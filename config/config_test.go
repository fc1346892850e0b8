package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real configuration leaks into the test
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	Reset()
	t.Cleanup(Reset)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Generated", cfg.Output.Dir)
	assert.Equal(t, "files", cfg.Output.Format)
	assert.Equal(t, ".cs", cfg.Output.Extension)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, ".pkgen/cache.db", cfg.Cache.Path)
	assert.Equal(t, 200, cfg.Watch.DebounceMS)
	assert.Empty(t, cfg.Metrics.File)
	assert.False(t, cfg.Generate.FailOnWarning)
}

func TestPrecedence(t *testing.T) {
	home, work := isolate(t)
	writeFile(t, filepath.Join(home, UserDir, UserFile), `
[output]
dir = "from-user"
extension = ".g.cs"

[cache]
enabled = true
`)
	writeFile(t, filepath.Join(work, ProjectFile), `
[output]
dir = "from-project"

[watch]
debounce_ms = 50
`)
	nested := filepath.Join(work, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)
	t.Setenv("PKGEN_WATCH_DEBOUNCE_MS", "75")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-project", cfg.Output.Dir, "project file overrides user file")
	assert.Equal(t, ".g.cs", cfg.Output.Extension, "user file overrides defaults")
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 75, cfg.Watch.DebounceMS, "environment overrides files")
}

func TestLoadIsCached(t *testing.T) {
	isolate(t)
	first, err := Load()
	require.NoError(t, err)
	t.Setenv("PKGEN_OUTPUT_DIR", "changed")
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "changed", third.Output.Dir)
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectFile), "")
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	assert.Equal(t, filepath.Join(root, ProjectFile), FindProjectConfig(deep))
	assert.Empty(t, FindProjectConfig(t.TempDir()))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[output]\nformat = \"txtar\"\n")
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "txtar", cfg.Output.Format)
	assert.Equal(t, "Generated", cfg.Output.Dir)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Output: OutputConfig{Dir: "Generated", Format: "files", Extension: ".cs"},
			Cache:  CacheConfig{Path: "cache.db"},
			Watch:  WatchConfig{DebounceMS: 200},
		}
	}
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "zip" }, wantErr: "output.format"},
		{name: "files without dir", mutate: func(c *Config) { c.Output.Dir = "" }, wantErr: "output.dir"},
		{name: "txtar without dir", mutate: func(c *Config) { c.Output.Dir = ""; c.Output.Format = "txtar" }},
		{name: "extension without dot", mutate: func(c *Config) { c.Output.Extension = "cs" }, wantErr: "output.extension"},
		{name: "enabled cache without path", mutate: func(c *Config) { c.Cache.Enabled = true; c.Cache.Path = "" }, wantErr: "cache.path"},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.DebounceMS = -1 }, wantErr: "watch.debounce_ms"},
		{name: "zero debounce", mutate: func(c *Config) { c.Watch.DebounceMS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInvalidEnvironmentFailsLoad(t *testing.T) {
	isolate(t)
	t.Setenv("PKGEN_OUTPUT_FORMAT", "zip")
	_, err := Load()
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Dir: "Generated", Format: "files", Extension: ".cs"},
		Watch:  WatchConfig{DebounceMS: 200},
	}

	b, err := cfg.Marshal("toml")
	require.NoError(t, err)
	assert.Contains(t, string(b), "[output]")
	assert.Contains(t, string(b), "dir = 'Generated'")

	b, err = cfg.Marshal("yaml")
	require.NoError(t, err)
	assert.Contains(t, string(b), "debounce_ms: 200")

	b, err = cfg.Marshal("json")
	require.NoError(t, err)
	assert.Contains(t, string(b), `"extension": ".cs"`)

	_, err = cfg.Marshal("ini")
	assert.Error(t, err)
}
