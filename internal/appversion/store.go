// Package appversion persists the catalog of known application versions.
package appversion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"addonlint/internal/compat"
)

// AppVersion is one known release of a target application.
type AppVersion struct {
	App        string `json:"app" yaml:"app"` // GUID
	Version    string `json:"version" yaml:"version"`
	VersionInt int64  `json:"version_int" yaml:"version_int"`
}

// ErrUnknownApp is returned when an application is neither a known GUID nor
// a known short name.
var ErrUnknownApp = errors.New("unknown application")

// Store is a SQLite-backed version catalog.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog at path and migrates it.
// ":memory:" gives a private in-memory catalog.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing handle. Callers must run Migrate.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS appversions (
		application TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		version_int INTEGER NOT NULL,
		UNIQUE (application, version)
	);
	CREATE INDEX IF NOT EXISTS appversions_app_int ON appversions (application, version_int);`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate appversions: %w", err)
	}
	return nil
}

// Add records a version, computing its catalog integer. Adding an existing
// version is a no-op.
func (s *Store) Add(ctx context.Context, app, version string) (AppVersion, error) {
	a, ok := compat.LookupApp(app)
	if !ok {
		return AppVersion{}, fmt.Errorf("%w: %q", ErrUnknownApp, app)
	}
	av := AppVersion{App: a.GUID, Version: version, VersionInt: compat.VersionInt(version)}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appversions (application, version, version_int) VALUES (?, ?, ?)
		 ON CONFLICT (application, version) DO NOTHING`,
		av.App, av.Version, av.VersionInt)
	if err != nil {
		return AppVersion{}, fmt.Errorf("failed to insert appversion: %w", err)
	}
	return av, nil
}

// List returns the versions of app (every app when empty), newest first.
func (s *Store) List(ctx context.Context, app string) ([]AppVersion, error) {
	query := `SELECT application, version, version_int FROM appversions`
	var args []any
	if app != "" {
		a, ok := compat.LookupApp(app)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownApp, app)
		}
		query += ` WHERE application = ?`
		args = append(args, a.GUID)
	}
	query += ` ORDER BY version_int DESC, application`
	return s.query(ctx, query, args...)
}

// Between returns versions of app inside the half-open range [min, max),
// newest first.
func (s *Store) Between(ctx context.Context, app, min, max string) ([]AppVersion, error) {
	a, ok := compat.LookupApp(app)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownApp, app)
	}
	return s.query(ctx,
		`SELECT application, version, version_int FROM appversions
		 WHERE application = ? AND version_int >= ? AND version_int < ?
		 ORDER BY version_int DESC`,
		a.GUID, compat.VersionInt(min), compat.VersionInt(max))
}

// Versions implements compat.VersionSource.
func (s *Store) Versions(ctx context.Context, guid string) ([]string, error) {
	list, err := s.List(ctx, guid)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, av := range list {
		out[i] = av.Version
	}
	return out, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]AppVersion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []AppVersion
	for rows.Next() {
		var av AppVersion
		if err := rows.Scan(&av.App, &av.Version, &av.VersionInt); err != nil {
			return nil, err
		}
		out = append(out, av)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
