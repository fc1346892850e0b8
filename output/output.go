// Package output writes generated documents: as files in a directory, as
// one txtar archive, or as JSON. It also compares a directory against a
// fresh pass for `pkgen check`.
package output

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/tools/txtar"

	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/generator"
)

// Format selects how a pass is written.
type Format string

const (
	Files Format = "files"
	Txtar Format = "txtar"
	JSON  Format = "json"
)

// DefaultExtension is appended to document keys to form file names
const DefaultExtension = ".cs"

// marker is the first line every generated document starts with; files
// without it are never pruned or reported stale
const marker = "// <auto-generated />"

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Files, Txtar, JSON:
		return f, nil
	}
	return "", errors.Newf("unknown output format %q (supported: files, txtar, json)", s)
}

// FileName is the file a document is written to
func FileName(key, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	return key + ext
}

// WriteResult counts what a directory write did.
type WriteResult struct {
	Written   []string
	Unchanged []string
	Removed   []string
}

// WriteDir writes every document into dir, skipping files whose content is
// already current. With prune, generated files no longer produced are removed.
func WriteDir(dir, ext string, docs []emit.Document, prune bool) (WriteResult, error) {
	var res WriteResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, errors.Wrapf(err, "create output directory %s", dir)
	}
	keep := make(map[string]bool, len(docs))
	for _, d := range docs {
		name := FileName(d.Key, ext)
		keep[name] = true
		path := filepath.Join(dir, name)
		if current, err := os.ReadFile(path); err == nil && string(current) == d.Text {
			res.Unchanged = append(res.Unchanged, name)
			continue
		}
		if err := os.WriteFile(path, []byte(d.Text), 0o644); err != nil {
			return res, errors.Wrapf(err, "write %s", path)
		}
		res.Written = append(res.Written, name)
	}
	if !prune {
		return res, nil
	}
	stale, err := generatedFiles(dir, ext)
	if err != nil {
		return res, err
	}
	for _, name := range stale {
		if keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return res, errors.Wrapf(err, "remove stale %s", name)
		}
		res.Removed = append(res.Removed, name)
	}
	return res, nil
}

// generatedFiles lists files in dir with the extension whose first line is the generated marker
func generatedFiles(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read output directory %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", e.Name())
		}
		if strings.HasPrefix(string(data), marker) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Archive renders documents as one txtar archive. The comment names the unit.
func Archive(unit string, docs []emit.Document) []byte {
	ar := &txtar.Archive{}
	if unit != "" {
		ar.Comment = []byte("unit: " + unit + "\n")
	}
	for _, d := range docs {
		ar.Files = append(ar.Files, txtar.File{Name: d.Key, Data: []byte(d.Text)})
	}
	return txtar.Format(ar)
}

// Unarchive reads documents back from a txtar archive
func Unarchive(data []byte) []emit.Document {
	ar := txtar.Parse(data)
	docs := make([]emit.Document, len(ar.Files))
	for i, f := range ar.Files {
		docs[i] = emit.Document{Key: f.Name, Text: string(f.Data)}
	}
	return docs
}

// Report is the JSON form of a pass.
type Report struct {
	Unit        string                      `json:"unit,omitempty"`
	Documents   []emit.Document             `json:"documents"`
	Diagnostics []reportDiagnostic          `json:"diagnostics"`
	Candidates  []generator.CandidateResult `json:"candidates,omitempty"`
}

type reportDiagnostic struct {
	ID        string `json:"id"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Location  string `json:"location,omitempty"`
	Candidate string `json:"candidate,omitempty"`
}

// Marshal renders a pass as indented JSON. Candidates are included only
// when verbose.
func Marshal(res *generator.Result, verbose bool) ([]byte, error) {
	r := Report{Unit: res.Unit, Documents: res.Documents}
	if r.Documents == nil {
		r.Documents = []emit.Document{}
	}
	r.Diagnostics = make([]reportDiagnostic, len(res.Diagnostics))
	for i, d := range res.Diagnostics {
		r.Diagnostics[i] = reportDiagnostic{
			ID:        d.ID,
			Severity:  d.Severity.String(),
			Message:   d.Message,
			Candidate: d.Candidate,
		}
		if !d.Location.IsZero() {
			r.Diagnostics[i].Location = d.Location.String()
		}
	}
	if verbose {
		r.Candidates = res.Candidates
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode result")
	}
	return append(b, '\n'), nil
}
