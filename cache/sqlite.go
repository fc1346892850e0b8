// Package cache stores generation results in SQLite so a new process can
// skip candidates whose inputs did not change.
package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/teranos/patternkit/db"
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/generator"
	"github.com/teranos/patternkit/internal/version"
	"github.com/teranos/patternkit/logger"
)

const (
	selectEntry = `SELECT fingerprint, wide, dependencies, documents, diagnostics
FROM generation_cache WHERE candidate = ?`

	upsertEntry = `INSERT INTO generation_cache
(candidate, fingerprint, wide, dependencies, documents, diagnostics, tool_version, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(candidate) DO UPDATE SET
fingerprint = excluded.fingerprint,
wide = excluded.wide,
dependencies = excluded.dependencies,
documents = excluded.documents,
diagnostics = excluded.diagnostics,
tool_version = excluded.tool_version,
updated_at = excluded.updated_at`

	deleteOtherVersions = `DELETE FROM generation_cache WHERE tool_version <> ?`

	countEntries = `SELECT COUNT(*) FROM generation_cache`
)

// SQLite is a generator.Cache over the generation_cache table.
type SQLite struct {
	db  *sql.DB
	log *zap.SugaredLogger
	now func() time.Time
	own bool
}

var _ generator.Cache = (*SQLite)(nil)

// Open opens (creating if needed) the cache database at path
func Open(path string, log *zap.SugaredLogger) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create cache directory %s", dir)
		}
	}
	conn, err := db.OpenWithMigrations(path, log)
	if err != nil {
		return nil, errors.Wrap(err, "open generation cache")
	}
	c := New(conn, log)
	c.own = true
	return c, nil
}

// New wraps an already migrated database. Close leaves it open.
func New(conn *sql.DB, log *zap.SugaredLogger) *SQLite {
	return &SQLite{db: conn, log: logger.OrNop(log), now: time.Now}
}

// Load returns the stored entry for a candidate
func (c *SQLite) Load(ctx context.Context, key string) (generator.Entry, bool, error) {
	var (
		e                   generator.Entry
		deps, docs, diagsJS string
	)
	err := c.db.QueryRowContext(ctx, selectEntry, key).Scan(&e.Fingerprint, &e.Wide, &deps, &docs, &diagsJS)
	if errors.Is(err, sql.ErrNoRows) {
		return generator.Entry{}, false, nil
	}
	if err != nil {
		return generator.Entry{}, false, wrap(err, "load %s", key)
	}
	if err := json.Unmarshal([]byte(deps), &e.Dependencies); err != nil {
		return generator.Entry{}, false, errors.Wrapf(err, "decode dependencies of %s", key)
	}
	if err := json.Unmarshal([]byte(docs), &e.Documents); err != nil {
		return generator.Entry{}, false, errors.Wrapf(err, "decode documents of %s", key)
	}
	if err := json.Unmarshal([]byte(diagsJS), &e.Diagnostics); err != nil {
		return generator.Entry{}, false, errors.Wrapf(err, "decode diagnostics of %s", key)
	}
	return e, true, nil
}

// Store inserts or replaces a candidate's entry
func (c *SQLite) Store(ctx context.Context, key string, e generator.Entry) error {
	deps, err := marshal(e.Dependencies, []string{})
	if err != nil {
		return errors.Wrapf(err, "encode dependencies of %s", key)
	}
	docs, err := marshal(e.Documents, []emit.Document{})
	if err != nil {
		return errors.Wrapf(err, "encode documents of %s", key)
	}
	diags, err := marshal(e.Diagnostics, []diag.Diagnostic{})
	if err != nil {
		return errors.Wrapf(err, "encode diagnostics of %s", key)
	}
	_, err = c.db.ExecContext(ctx, upsertEntry,
		key, e.Fingerprint, e.Wide, deps, docs, diags,
		version.Version, c.now().UTC().Format(time.RFC3339))
	if err != nil {
		return wrap(err, "store %s", key)
	}
	c.log.Debugw("cache entry stored",
		logger.FieldCandidate, key,
		logger.FieldFingerprint, e.Fingerprint)
	return nil
}

// PruneOtherVersions removes entries written by other tool versions; their
// fingerprints can never match again
func (c *SQLite) PruneOtherVersions(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, deleteOtherVersions, version.Version)
	if err != nil {
		return 0, wrap(err, "prune cache")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "prune cache")
	}
	if n > 0 {
		c.log.Infow("pruned cache entries of other versions", "removed", n)
	}
	return n, nil
}

// Len counts stored entries
func (c *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, countEntries).Scan(&n); err != nil {
		return 0, wrap(err, "count cache entries")
	}
	return n, nil
}

// Close closes the database if Open opened it
func (c *SQLite) Close() error {
	if !c.own {
		return nil
	}
	return c.db.Close()
}

// marshal encodes v, writing the empty value instead of null
func marshal[T any](v []T, empty []T) (string, error) {
	if v == nil {
		v = empty
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func wrap(err error, format string, args ...any) error {
	return db.Closed(err, format, args...)
}
