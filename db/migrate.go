package db

import (
	"database/sql"
	"embed"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/logger"
)

//go:embed sqlite/migrations/*.sql
var embedded embed.FS

// bootstrapVersion creates schema_migrations itself
const bootstrapVersion = "000"

// migration is one "<version>_<name>.sql" script
type migration struct {
	version string
	file    string
	body    string
}

// Migrate brings the cache schema up to date with the embedded scripts
func Migrate(conn *sql.DB, log *zap.SugaredLogger) error {
	sub, err := fs.Sub(embedded, "sqlite/migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}
	_, err = migrate(conn, sub, log)
	return err
}

// migrate applies every script of fsys not yet recorded and returns how
// many ran
func migrate(conn *sql.DB, fsys fs.FS, log *zap.SugaredLogger) (int, error) {
	log = logger.OrNop(log)

	set, err := loadMigrations(fsys)
	if err != nil {
		return 0, err
	}
	done, err := appliedVersions(conn)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, m := range set {
		if done[m.version] {
			log.Debugw("migration already applied", "migration", m.file)
			continue
		}
		log.Infow("applying migration", "migration", m.file, "version", m.version)
		if err := apply(conn, m); err != nil {
			return ran, err
		}
		ran++
	}
	log.Debugw("schema up to date", "migrations", len(set), "applied", ran)
	return ran, nil
}

// loadMigrations reads the scripts in version order. The bootstrap
// script must be present and versions must be unique.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	seen := map[string]string{}
	var set []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, _, ok := strings.Cut(e.Name(), "_")
		if !ok || version == "" {
			return nil, errors.Newf("migration %s is not named <version>_<name>.sql", e.Name())
		}
		if prev, dup := seen[version]; dup {
			return nil, errors.Newf("migrations %s and %s share version %s", prev, e.Name(), version)
		}
		seen[version] = e.Name()
		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", e.Name())
		}
		set = append(set, migration{version: version, file: e.Name(), body: string(body)})
	}
	if _, ok := seen[bootstrapVersion]; !ok {
		return nil, errors.Newf("migration %s_*.sql is missing", bootstrapVersion)
	}
	sort.Slice(set, func(i, j int) bool { return set[i].version < set[j].version })
	return set, nil
}

// appliedVersions is empty on a fresh database
func appliedVersions(conn *sql.DB) (map[string]bool, error) {
	var n int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'").Scan(&n)
	if err != nil {
		return nil, errors.Wrap(err, "look up schema_migrations")
	}
	done := map[string]bool{}
	if n == 0 {
		return done, nil
	}
	rows, err := conn.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "read schema_migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		done[v] = true
	}
	return done, errors.Wrap(rows.Err(), "read schema_migrations")
}

// apply runs the script and records its version in one transaction
func apply(conn *sql.DB, m migration) (err error) {
	tx, err := conn.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin %s", m.file)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.Exec(m.body); err != nil {
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}
