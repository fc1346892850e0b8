package output

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/errors"
)

// Comparison is the difference between a fresh pass and a directory.
type Comparison struct {
	// Missing documents have no file yet
	Missing []string
	// Changed files differ from the fresh document
	Changed []string
	// Stale files are generated files no document produces any more
	Stale []string
}

// UpToDate reports whether the directory matches the pass exactly
func (c Comparison) UpToDate() bool {
	return len(c.Missing) == 0 && len(c.Changed) == 0 && len(c.Stale) == 0
}

// Err returns ErrOutOfDate when the directory does not match
func (c Comparison) Err() error {
	if c.UpToDate() {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%d missing, %d changed, %d stale", len(c.Missing), len(c.Changed), len(c.Stale)),
		"run 'pkgen generate' to update")
}

// CompareDir compares docs against the files in dir without writing anything
func CompareDir(dir, ext string, docs []emit.Document) (Comparison, error) {
	var c Comparison
	want := make(map[string]bool, len(docs))
	for _, d := range docs {
		name := FileName(d.Key, ext)
		want[name] = true
		current, err := os.ReadFile(filepath.Join(dir, name))
		switch {
		case os.IsNotExist(err):
			c.Missing = append(c.Missing, name)
		case err != nil:
			return c, errors.Wrapf(err, "read %s", name)
		case string(current) != d.Text:
			c.Changed = append(c.Changed, name)
		}
	}
	generated, err := generatedFiles(dir, ext)
	if err != nil {
		return c, err
	}
	for _, name := range generated {
		if !want[name] {
			c.Stale = append(c.Stale, name)
		}
	}
	sort.Strings(c.Missing)
	sort.Strings(c.Changed)
	return c, nil
}
