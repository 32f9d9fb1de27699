package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"fv-go/internal/auth"
	"fv-go/internal/database/migrations"
	"fv-go/internal/fv"
	"fv-go/internal/model"
)

// SQLiteDatabase implements the fv.Ledger and auth.UserStore interfaces
// using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:   db,
		path: path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:   db,
		path: "",
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// Each new connection to ":memory:" gets its own empty database.
		db.SetMaxOpenConns(1)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait for locks instead of failing immediately. Concurrent uploads
	// serialize their inserts through SQLite's write lock.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	return db, nil
}

// Version ledger operations

func (s *SQLiteDatabase) NextVersion(ownerID int64, urlPath string) (int64, error) {
	var next int64
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(version) + 1, 0) FROM file_versions WHERE owner_id = ? AND url_path = ?`,
		ownerID, urlPath,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next version: %w", err)
	}
	return next, nil
}

func (s *SQLiteDatabase) AppendVersion(rec *model.FileVersion) error {
	_, err := s.db.Exec(
		`INSERT INTO file_versions (id, owner_id, url_path, version, filename, mime_type, size, blob_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, rec.URLPath, rec.Version, rec.Filename, rec.MimeType, rec.Size, rec.BlobKey, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fv.ErrConflict
		}
		return fmt.Errorf("inserting file version: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindLatestVersion(ownerID int64, urlPath string) (*model.FileVersion, error) {
	rec, err := s.scanVersion(s.db.QueryRow(
		selectVersionColumns+` WHERE owner_id = ? AND url_path = ? ORDER BY version DESC LIMIT 1`,
		ownerID, urlPath,
	))
	if err != nil {
		return nil, fmt.Errorf("finding latest version: %w", err)
	}
	return rec, nil
}

func (s *SQLiteDatabase) FindVersion(ownerID int64, urlPath string, version int64) (*model.FileVersion, error) {
	rec, err := s.scanVersion(s.db.QueryRow(
		selectVersionColumns+` WHERE owner_id = ? AND url_path = ? AND version = ?`,
		ownerID, urlPath, version,
	))
	if err != nil {
		return nil, fmt.Errorf("finding version: %w", err)
	}
	return rec, nil
}

// ListVersions returns all versions for (ownerID, urlPath), oldest first.
func (s *SQLiteDatabase) ListVersions(ownerID int64, urlPath string) ([]*model.FileVersion, error) {
	rows, err := s.db.Query(
		selectVersionColumns+` WHERE owner_id = ? AND url_path = ? ORDER BY version ASC`,
		ownerID, urlPath,
	)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var result []*model.FileVersion
	for rows.Next() {
		var rec model.FileVersion
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.URLPath, &rec.Version,
			&rec.Filename, &rec.MimeType, &rec.Size, &rec.BlobKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning version row: %w", err)
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return result, nil
}

const selectVersionColumns = `SELECT id, owner_id, url_path, version, filename, mime_type, size, blob_key, created_at FROM file_versions`

// scanVersion scans a single version row, mapping sql.ErrNoRows to (nil, nil).
func (s *SQLiteDatabase) scanVersion(row *sql.Row) (*model.FileVersion, error) {
	var rec model.FileVersion
	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.URLPath, &rec.Version,
		&rec.Filename, &rec.MimeType, &rec.Size, &rec.BlobKey, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrateUp applies all pending migrations.
func (s *SQLiteDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time checks against the interfaces this type backs.
var (
	_ fv.Ledger      = (*SQLiteDatabase)(nil)
	_ auth.UserStore = (*SQLiteDatabase)(nil)
)
