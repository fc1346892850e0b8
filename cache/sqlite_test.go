package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/patternkit/db"
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/generator"
	"github.com/teranos/patternkit/internal/version"
	"github.com/teranos/patternkit/model"
)

var entry = generator.Entry{
	Fingerprint:  "5HueCGU8rMjx",
	Dependencies: []string{"Demo.IRenderer", "Demo.Shape"},
	Documents:    []emit.Document{{Key: "Demo.Shape.Bridge.g", Text: "// <auto-generated />\n"}},
	Diagnostics: []diag.Diagnostic{{
		ID:        "PKBRG005",
		Severity:  diag.Warning,
		Message:   "generic member skipped",
		Location:  diag.Location{File: "shapes.yaml", Line: 9},
		Candidate: "Demo.Shape#Bridge",
	}},
}

// =============================================================================
// Statement shape (sqlmock)
// =============================================================================

func TestStoreStatement(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	c := New(conn, nil)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generation_cache")).
		WithArgs(
			"Demo.Shape#Bridge", entry.Fingerprint, false,
			`["Demo.IRenderer","Demo.Shape"]`, sqlmock.AnyArg(), sqlmock.AnyArg(),
			version.Version, "2026-03-01T12:00:00Z",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, c.Store(context.Background(), "Demo.Shape#Bridge", entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreWritesEmptyListsForNil(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generation_cache")).
		WithArgs("A#Proxy", "fp", true, "[]", "[]", "[]", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, New(conn, nil).Store(context.Background(), "A#Proxy", generator.Entry{Fingerprint: "fp", Wide: true}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadStatement(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	c := New(conn, nil)
	query := regexp.QuoteMeta("SELECT fingerprint, wide, dependencies, documents, diagnostics")

	t.Run("hit", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"fingerprint", "wide", "dependencies", "documents", "diagnostics"}).
			AddRow("fp", false, `["Demo.Shape"]`, `[{"key":"Demo.Shape.Bridge.g","text":"x"}]`,
				`[{"id":"PKBRG005","severity":"warning","message":"m","location":{}}]`)
		mock.ExpectQuery(query).WithArgs("Demo.Shape#Bridge").WillReturnRows(rows)

		e, ok, err := c.Load(context.Background(), "Demo.Shape#Bridge")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "fp", e.Fingerprint)
		assert.Equal(t, []string{"Demo.Shape"}, e.Dependencies)
		assert.Equal(t, []emit.Document{{Key: "Demo.Shape.Bridge.g", Text: "x"}}, e.Documents)
		require.Len(t, e.Diagnostics, 1)
		assert.Equal(t, diag.Warning, e.Diagnostics[0].Severity)
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("Nope#Bridge").WillReturnError(sql.ErrNoRows)
		_, ok, err := c.Load(context.Background(), "Nope#Bridge")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt row", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"fingerprint", "wide", "dependencies", "documents", "diagnostics"}).
			AddRow("fp", false, `not json`, `[]`, `[]`)
		mock.ExpectQuery(query).WithArgs("Bad#Bridge").WillReturnRows(rows)
		_, _, err := c.Load(context.Background(), "Bad#Bridge")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedDatabase(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, conn.Close())

	err = New(conn, nil).Store(context.Background(), "A#Proxy", entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrClosed)
}

// =============================================================================
// Round trip (real SQLite)
// =============================================================================

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := Open(path, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	_, ok, err := c.Load(ctx, "Demo.Shape#Bridge")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Store(ctx, "Demo.Shape#Bridge", entry))
	got, ok, err := c.Load(ctx, "Demo.Shape#Bridge")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)

	updated := entry
	updated.Fingerprint = "other"
	updated.Wide = true
	require.NoError(t, c.Store(ctx, "Demo.Shape#Bridge", updated))
	got, _, err = c.Load(ctx, "Demo.Shape#Bridge")
	require.NoError(t, err)
	assert.Equal(t, "other", got.Fingerprint)
	assert.True(t, got.Wide)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPruneOtherVersions(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	prev := version.Version
	t.Cleanup(func() { version.Version = prev })

	version.Version = "0.3.0"
	require.NoError(t, c.Store(ctx, "Old#Bridge", entry))
	version.Version = prev
	require.NoError(t, c.Store(ctx, "New#Bridge", entry))

	removed, err := c.PruneOtherVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, ok, err := c.Load(ctx, "Old#Bridge")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDriverUsesStore(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer c.Close()

	unit := model.RawUnit{Declarations: []model.RawDeclaration{
		{Name: "IRenderer", Namespace: "Demo", Kind: "interface", Accessibility: "public"},
		{
			Name:          "Shape",
			Namespace:     "Demo",
			Kind:          "class",
			Modifiers:     []string{"partial", "abstract"},
			Accessibility: "public",
			Attributes:    []model.RawAttribute{{Name: "Bridge", Args: []any{"typeof(IRenderer)"}}},
		},
	}}
	ctx := context.Background()

	first, err := generator.New(generator.Default(), generator.WithCache(c)).Run(ctx, unit, generator.Options{})
	require.NoError(t, err)
	require.Len(t, first.Documents, 1)

	second, err := generator.New(generator.Default(), generator.WithCache(c)).Run(ctx, unit, generator.Options{})
	require.NoError(t, err)
	cr, ok := second.Candidate("Demo.Shape#Bridge")
	require.True(t, ok)
	assert.Equal(t, generator.Cached, cr.Source)
	assert.Equal(t, first.Documents, second.Documents)
}

func TestCloseLeavesSharedConnectionOpen(t *testing.T) {
	conn, err := db.OpenWithMigrations(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, New(conn, nil).Close())
	assert.NoError(t, conn.Ping())
}
