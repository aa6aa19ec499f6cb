package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsink/docsink/internal/model"
)

// HistoryDB provides SQLite-based storage for crawl history.
// It manages connection pooling and provides methods for recording and
// querying past crawl sessions.
//
// Design decision: We use a single database file for all sites rather
// than one file per site. This keeps cross-site queries (list all
// sessions, compare crawls of different sites) in one place and
// simplifies backup.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "docsink.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent session writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Sessions store one row per completed crawl
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_url TEXT NOT NULL,
		started DATETIME NOT NULL,
		finished DATETIME NOT NULL,
		pages INTEGER NOT NULL,
		abandoned INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_root ON sessions(root_url);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started);

	-- Pages store the per-page records of each session
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES sessions(id),
		url TEXT NOT NULL,
		path TEXT NOT NULL,
		title TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Session is one stored crawl session.
type Session struct {
	ID        int64
	RootURL   string
	Started   time.Time
	Finished  time.Time
	Pages     int
	Abandoned int
}

// SaveCrawl records a completed crawl: one session row and one page row
// per extracted page, in one transaction. It returns the session ID.
func (hdb *HistoryDB) SaveCrawl(ctx context.Context, summary *model.CrawlSummary) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (root_url, started, finished, pages, abandoned) VALUES (?, ?, ?, ?, ?)`,
		summary.RootURL,
		summary.Started.UTC().Format(time.RFC3339),
		summary.Finished.UTC().Format(time.RFC3339),
		len(summary.Pages),
		len(summary.Abandoned),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	for _, page := range summary.Pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pages (session_id, url, path, title) VALUES (?, ?, ?, ?)`,
			sessionID, page.URL, page.Path, page.Title,
		); err != nil {
			return 0, fmt.Errorf("failed to insert page record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	return sessionID, nil
}

// RecentSessions returns the most recent sessions, newest first,
// optionally filtered by root URL. limit <= 0 means no limit.
func (hdb *HistoryDB) RecentSessions(ctx context.Context, rootURL string, limit int) ([]Session, error) {
	query := `
	SELECT id, root_url, started, finished, pages, abandoned
	FROM sessions
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if rootURL != "" {
		query += " AND root_url = ?"
		args = append(args, rootURL)
	}
	query += " ORDER BY started DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var results []Session
	for rows.Next() {
		var s Session
		var started, finished string
		if err := rows.Scan(&s.ID, &s.RootURL, &started, &finished, &s.Pages, &s.Abandoned); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Started = parseTimestamp(started)
		s.Finished = parseTimestamp(finished)
		results = append(results, s)
	}

	return results, rows.Err()
}

// SessionPages returns the page records of one session, in insertion
// order.
func (hdb *HistoryDB) SessionPages(ctx context.Context, sessionID int64) ([]model.PageRecord, error) {
	rows, err := hdb.db.QueryContext(ctx,
		`SELECT url, path, title FROM pages WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var results []model.PageRecord
	for rows.Next() {
		var p model.PageRecord
		var title sql.NullString
		if err := rows.Scan(&p.URL, &p.Path, &title); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.Title = title.String
		results = append(results, p)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
