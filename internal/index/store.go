// Package index keeps the last issue listing of each project in a local
// SQLite database so it can be shown without contacting the tracker.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/temirov/jirate/internal/tracker"
)

const (
	driverName    = "sqlite"
	allUsersScope = "*"
	labelJoiner   = " "

	migrationErrorFormat = "index migration failed: %w"
	openErrorFormat      = "open index %s: %w"
	replaceErrorFormat   = "replace index snapshot for %s: %w"
	snapshotErrorFormat  = "read index snapshot for %s: %w"
	markStaleErrorFormat = "mark index stale for %s: %w"
)

// Snapshot is one stored listing.
type Snapshot struct {
	Issues     []tracker.Issue
	CapturedAt time.Time
	// Stale is set once a command changed the project after the snapshot was taken.
	Stale bool
}

// Store is an open index database.
type Store struct {
	database *sql.DB
	path     string
}

// Open opens or creates the index at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(openErrorFormat, path, err)
	}
	database, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf(openErrorFormat, path, err)
	}
	if err := migrate(database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return &Store{database: database, path: path}, nil
}

func migrate(database *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			project TEXT NOT NULL,
			scope TEXT NOT NULL,
			position INTEGER NOT NULL,
			issue_key TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			status_name TEXT NOT NULL DEFAULT '',
			status_category TEXT NOT NULL DEFAULT '',
			status_color TEXT NOT NULL DEFAULT '',
			labels TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (project, scope, position)
		);`,
		`CREATE TABLE IF NOT EXISTS freshness (
			project TEXT NOT NULL,
			scope TEXT NOT NULL,
			captured_at TEXT NOT NULL,
			stale INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (project, scope)
		);`,
	}
	for _, statement := range statements {
		if _, err := database.Exec(statement); err != nil {
			return fmt.Errorf(migrationErrorFormat, err)
		}
	}
	return nil
}

// Path returns the database file location.
func (store *Store) Path() string {
	return store.path
}

// Close closes the database.
func (store *Store) Close() error {
	if store == nil || store.database == nil {
		return nil
	}
	return store.database.Close()
}

// Replace stores issues as the listing of project for the user selector scope
// ("" for everyone) and clears the stale mark.
func (store *Store) Replace(project string, scope string, issues []tracker.Issue, capturedAt time.Time) error {
	transaction, err := store.database.Begin()
	if err != nil {
		return fmt.Errorf(replaceErrorFormat, project, err)
	}
	storedScope := normalizeScope(scope)
	if _, err := transaction.Exec(`DELETE FROM snapshots WHERE project = ? AND scope = ?`, project, storedScope); err != nil {
		_ = transaction.Rollback()
		return fmt.Errorf(replaceErrorFormat, project, err)
	}
	insert, err := transaction.Prepare(`INSERT INTO snapshots
		(project, scope, position, issue_key, summary, status_name, status_category, status_color, labels)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = transaction.Rollback()
		return fmt.Errorf(replaceErrorFormat, project, err)
	}
	defer insert.Close()
	for position, issue := range issues {
		if _, err := insert.Exec(project, storedScope, position, issue.Key, issue.Summary,
			issue.Status.Name, issue.Status.Category, issue.Status.CategoryColor,
			strings.Join(issue.Labels, labelJoiner)); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf(replaceErrorFormat, project, err)
		}
	}
	if _, err := transaction.Exec(`INSERT INTO freshness (project, scope, captured_at, stale) VALUES (?, ?, ?, 0)
		ON CONFLICT(project, scope) DO UPDATE SET captured_at = excluded.captured_at, stale = 0`,
		project, storedScope, capturedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		_ = transaction.Rollback()
		return fmt.Errorf(replaceErrorFormat, project, err)
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf(replaceErrorFormat, project, err)
	}
	return nil
}

// Snapshot returns the stored listing for project and scope. The boolean is
// false when nothing was stored yet.
func (store *Store) Snapshot(project string, scope string) (Snapshot, bool, error) {
	storedScope := normalizeScope(scope)
	var (
		capturedAt string
		stale      int
	)
	row := store.database.QueryRow(`SELECT captured_at, stale FROM freshness WHERE project = ? AND scope = ?`, project, storedScope)
	if err := row.Scan(&capturedAt, &stale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf(snapshotErrorFormat, project, err)
	}
	snapshot := Snapshot{Stale: stale != 0}
	if parsed, err := time.Parse(time.RFC3339Nano, capturedAt); err == nil {
		snapshot.CapturedAt = parsed
	}

	rows, err := store.database.Query(`SELECT issue_key, summary, status_name, status_category, status_color, labels
		FROM snapshots WHERE project = ? AND scope = ? ORDER BY position ASC`, project, storedScope)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf(snapshotErrorFormat, project, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			issue  tracker.Issue
			labels string
		)
		if err := rows.Scan(&issue.Key, &issue.Summary, &issue.Status.Name, &issue.Status.Category, &issue.Status.CategoryColor, &labels); err != nil {
			return Snapshot{}, false, fmt.Errorf(snapshotErrorFormat, project, err)
		}
		if labels != "" {
			issue.Labels = strings.Fields(labels)
		}
		snapshot.Issues = append(snapshot.Issues, issue)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, fmt.Errorf(snapshotErrorFormat, project, err)
	}
	return snapshot, true, nil
}

// MarkStale flags every snapshot of project as outdated.
func (store *Store) MarkStale(project string) error {
	if _, err := store.database.Exec(`UPDATE freshness SET stale = 1 WHERE project = ?`, project); err != nil {
		return fmt.Errorf(markStaleErrorFormat, project, err)
	}
	return nil
}

func normalizeScope(scope string) string {
	if scope == "" {
		return allUsersScope
	}
	return scope
}
