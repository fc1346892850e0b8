package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/generator"
	"github.com/teranos/patternkit/model"
)

func TestCandidateDone(t *testing.T) {
	c := New()
	c.CandidateDone(&generator.CandidateResult{
		Pattern:   "Bridge",
		Source:    generator.Generated,
		Documents: []emit.Document{{Key: "A.Bridge.g"}},
		Diagnostics: []diag.Diagnostic{
			{ID: "PKBRG005", Severity: diag.Warning},
			{ID: "PKBRG005", Severity: diag.Warning},
		},
	}, 2*time.Millisecond)
	c.CandidateDone(&generator.CandidateResult{Pattern: "Bridge", Source: generator.Cached}, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.candidates.WithLabelValues("Bridge", "generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.candidates.WithLabelValues("Bridge", "cache")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.diagnostics.WithLabelValues("PKBRG005", "warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.documents.WithLabelValues("Bridge")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestObservesDriver(t *testing.T) {
	c := New()
	unit := model.RawUnit{Declarations: []model.RawDeclaration{
		{Name: "IRenderer", Namespace: "Demo", Kind: "interface"},
		{
			Name:       "Shape",
			Namespace:  "Demo",
			Kind:       "class",
			Modifiers:  []string{"abstract"},
			Attributes: []model.RawAttribute{{Name: "Bridge", Args: []any{"typeof(IRenderer)"}}},
		},
	}}
	_, err := generator.New(generator.Default(), generator.WithObserver(c)).Run(context.Background(), unit, generator.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.passes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lastErrors), "Shape is not partial")
	assert.Equal(t, 0.0, testutil.ToFloat64(c.lastDocs))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.diagnostics.WithLabelValues("PKBRG001", "error")))
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	c.PassDone(&generator.Result{Documents: make([]emit.Document, 3)}, time.Second)

	path := filepath.Join(t.TempDir(), "pkgen.prom")
	require.NoError(t, c.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pkgen_passes_total 1")
	assert.Contains(t, string(data), "pkgen_last_pass_documents 3")
}
