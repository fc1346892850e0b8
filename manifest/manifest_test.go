package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/model"
)

const doorYAML = `name: doors
declarations:
  - name: Door
    namespace: Demo
    kind: class
    modifiers: [partial]
    attributes:
      - name: StateMachine
        args: ["typeof(DoorState)"]
        named: {GenerateAsync: false}
`

const doorTOML = `name = "doors"

[[declarations]]
name = "Door"
namespace = "Demo"
kind = "class"
modifiers = ["partial"]

[[declarations.attributes]]
name = "StateMachine"
args = ["typeof(DoorState)"]
named = { GenerateAsync = false }
`

const doorJSON = `{
  "name": "doors",
  "declarations": [
    {
      "name": "Door",
      "namespace": "Demo",
      "kind": "class",
      "modifiers": ["partial"],
      "attributes": [
        {"name": "StateMachine", "args": ["typeof(DoorState)"], "named": {"GenerateAsync": false}}
      ]
    }
  ]
}`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeFormatsAgree(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{name: "yaml", format: YAML, src: doorYAML},
		{name: "toml", format: TOML, src: doorTOML},
		{name: "json", format: JSON, src: doorJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Decode([]byte(tt.src), tt.format)
			require.NoError(t, err)
			assert.Equal(t, "doors", u.Name)
			require.Len(t, u.Declarations, 1)
			d := u.Declarations[0]
			assert.Equal(t, "Door", d.Name)
			assert.Equal(t, []string{"partial"}, d.Modifiers)
			require.Len(t, d.Attributes, 1)
			assert.Equal(t, []any{"typeof(DoorState)"}, d.Attributes[0].Args)
			assert.Equal(t, false, d.Attributes[0].Named["GenerateAsync"])

			// all three build to the same declaration
			unit, ds := model.Build(u)
			require.Empty(t, ds)
			marker, ok := unit.Declarations[0].Attribute("StateMachine")
			require.True(t, ok)
			v, ok := marker.Arg("GenerateAsync", -1)
			require.True(t, ok)
			assert.Equal(t, false, v)
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{name: "yaml", format: YAML, src: "declarations:\n  - name: Door\n    kind: class\n    atributes: []\n"},
		{name: "toml", format: TOML, src: "[[declarations]]\nname = \"Door\"\nkind = \"class\"\natributes = []\n"},
		{name: "json", format: JSON, src: `{"declarations": [{"name": "Door", "kind": "class", "atributes": []}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidManifest)
			assert.Contains(t, err.Error(), "atributes")
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("declarations: [unclosed"), YAML)
	assert.ErrorIs(t, err, errors.ErrInvalidManifest)
	_, err = Decode([]byte(`{"declarations": `), JSON)
	assert.ErrorIs(t, err, errors.ErrInvalidManifest)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml":     YAML,
		"b.YML":      YAML,
		"c.toml":     TOML,
		"dir/d.json": JSON,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("manifest.txt")
	assert.ErrorIs(t, err, errors.ErrInvalidManifest)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadMergesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		write(t, dir, "a.yaml", "declarations:\n  - {name: A, kind: class}\n  - {name: B, kind: class}\n"),
		write(t, dir, "b.json", `{"name": "shop", "declarations": [{"name": "C", "kind": "class"}]}`),
		write(t, dir, "c.toml", "[[declarations]]\nname = \"D\"\nkind = \"interface\"\n"),
	}

	u, err := Load(context.Background(), zaptest.NewLogger(t).Sugar(), paths...)
	require.NoError(t, err)
	assert.Equal(t, "shop", u.Name)

	var names, files []string
	for _, d := range u.Declarations {
		names = append(names, d.Name)
		files = append(files, filepath.Base(d.Location.File))
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, names)
	assert.Equal(t, []string{"a.yaml", "a.yaml", "b.json", "c.toml"}, files)
}

func TestLoadNamesUnitAfterFirstFile(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "orders.yaml", "declarations:\n  - {name: A, kind: class}\n")
	u, err := Load(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, "orders", u.Name)
}

func TestLoadKeepsExplicitLocations(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.yaml", "declarations:\n  - name: A\n    kind: class\n    location: {file: Shapes.cs, line: 12}\n")
	u, err := Load(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, model.Location{File: "Shapes.cs", Line: 12}, u.Declarations[0].Location)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("no manifests", func(t *testing.T) {
		_, err := Load(context.Background(), nil)
		assert.ErrorIs(t, err, errors.ErrInvalidManifest)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), nil, filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absent.yaml")
	})

	t.Run("one bad file fails the load", func(t *testing.T) {
		good := write(t, dir, "good.yaml", "declarations: []\n")
		bad := write(t, dir, "bad.json", `{"declarations": 3}`)
		_, err := Load(context.Background(), nil, good, bad)
		assert.ErrorIs(t, err, errors.ErrInvalidManifest)
		assert.Contains(t, err.Error(), "bad.json")
	})

	t.Run("unsatisfied requires", func(t *testing.T) {
		path := write(t, dir, "future.yaml", "requires: \">= 99.0\"\ndeclarations: []\n")
		_, err := Load(context.Background(), nil, path)
		assert.ErrorIs(t, err, errors.ErrUnsupportedSchema)
	})

	t.Run("unreadable requires", func(t *testing.T) {
		path := write(t, dir, "garbled.yaml", "requires: \"soon\"\ndeclarations: []\n")
		_, err := Load(context.Background(), nil, path)
		assert.ErrorIs(t, err, errors.ErrUnsupportedSchema)
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	src, err := Decode([]byte(doorYAML), YAML)
	require.NoError(t, err)
	for _, f := range []Format{YAML, TOML, JSON} {
		data, err := Encode(src, f)
		require.NoError(t, err, f)
		back, err := Decode(data, f)
		require.NoError(t, err, f)
		assert.Equal(t, src.Declarations[0].Name, back.Declarations[0].Name, f)
		assert.Equal(t, src.Declarations[0].Attributes[0].Args, back.Declarations[0].Attributes[0].Args, f)
	}
}
