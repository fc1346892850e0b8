package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/generator"
)

var docs = []emit.Document{
	{Key: "Demo.Door.StateMachine.g", Text: "// <auto-generated />\nclass Door {}\n"},
	{Key: "Demo.Shape.Bridge.g", Text: "// <auto-generated />\nclass Shape {}\n"},
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"files", "TXTAR", " json "} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("zip")
	assert.Error(t, err)
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gen")

	res, err := WriteDir(dir, "", docs, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Demo.Door.StateMachine.g.cs", "Demo.Shape.Bridge.g.cs"}, res.Written)
	assert.Equal(t, docs[0].Text, read(t, filepath.Join(dir, "Demo.Door.StateMachine.g.cs")))

	t.Run("unchanged files are not rewritten", func(t *testing.T) {
		res, err := WriteDir(dir, "", docs, false)
		require.NoError(t, err)
		assert.Empty(t, res.Written)
		assert.Len(t, res.Unchanged, 2)
	})

	t.Run("prune removes only generated leftovers", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Old.Proxy.g.cs"), []byte("// <auto-generated />\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Handwritten.cs"), []byte("class Mine {}\n"), 0o644))

		res, err := WriteDir(dir, "", docs[:1], true)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Demo.Shape.Bridge.g.cs", "Old.Proxy.g.cs"}, res.Removed)
		assert.FileExists(t, filepath.Join(dir, "Handwritten.cs"))
		assert.NoFileExists(t, filepath.Join(dir, "Old.Proxy.g.cs"))
	})
}

func TestWriteDirCustomExtension(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteDir(dir, ".generated.cs", docs[:1], false)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Demo.Door.StateMachine.g.generated.cs"))
}

func TestCompareDir(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteDir(dir, "", docs, false)
	require.NoError(t, err)

	c, err := CompareDir(dir, "", docs)
	require.NoError(t, err)
	assert.True(t, c.UpToDate())
	assert.NoError(t, c.Err())

	changed := []emit.Document{
		{Key: docs[0].Key, Text: docs[0].Text + "// edited\n"},
		{Key: "Demo.Coin.Prototype.g", Text: "// <auto-generated />\n"},
	}
	c, err = CompareDir(dir, "", changed)
	require.NoError(t, err)
	assert.Equal(t, []string{"Demo.Coin.Prototype.g.cs"}, c.Missing)
	assert.Equal(t, []string{"Demo.Door.StateMachine.g.cs"}, c.Changed)
	assert.Equal(t, []string{"Demo.Shape.Bridge.g.cs"}, c.Stale)
	assert.False(t, c.UpToDate())
	assert.ErrorIs(t, c.Err(), errors.ErrOutOfDate)
	assert.True(t, errors.IsOutOfDate(c.Err()))
}

func TestCompareMissingDirectory(t *testing.T) {
	c, err := CompareDir(filepath.Join(t.TempDir(), "absent"), "", docs)
	require.NoError(t, err)
	assert.Len(t, c.Missing, 2)
	assert.Empty(t, c.Stale)
}

func TestArchiveRoundTrip(t *testing.T) {
	data := Archive("doors", docs)
	assert.Contains(t, string(data), "unit: doors\n-- Demo.Door.StateMachine.g --\n")
	assert.Equal(t, docs, Unarchive(data))
}

func TestMarshal(t *testing.T) {
	res := &generator.Result{
		Unit:      "doors",
		Documents: docs[:1],
		Diagnostics: []diag.Diagnostic{{
			ID:        "PKST004",
			Severity:  diag.Warning,
			Message:   "state 'Locked' is unreachable",
			Location:  diag.Location{File: "doors.yaml", Line: 4},
			Candidate: "Demo.Door#StateMachine",
		}, {
			ID:       "PKGEN006",
			Severity: diag.Error,
			Message:  "declaration 'Demo.Door' is defined more than once",
		}},
	}
	b, err := Marshal(res, false)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "doors", back["unit"])
	assert.NotContains(t, back, "candidates")
	ds := back["diagnostics"].([]any)
	require.Len(t, ds, 2)
	first := ds[0].(map[string]any)
	assert.Equal(t, "warning", first["severity"])
	assert.Equal(t, "doors.yaml:4", first["location"])
	assert.NotContains(t, ds[1].(map[string]any), "location")
}

func TestMarshalEmptyPass(t *testing.T) {
	b, err := Marshal(&generator.Result{}, true)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"documents": []`)
	assert.Contains(t, string(b), `"diagnostics": []`)
}
