package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/notices/internal/model"
)

// FileName is the name of the SQLite file inside the history directory.
const FileName = "notices.db"

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// HistoryDB stores generated classifications so runs can be compared.
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

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run with --save first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
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

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		classification_json TEXT NOT NULL,
		single_count INTEGER NOT NULL DEFAULT 0,
		multi_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a stored generation result.
type Run struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Project is the project name the notices were generated for.
	// It may be empty.
	Project string

	// Timestamp is when the run was saved.
	Timestamp time.Time

	// Classification is the full license classification of the run.
	Classification *model.Classification
}

// RunMetadata contains summary information about a run.
// It is used for listing history without decoding the classification.
type RunMetadata struct {
	ID        int64
	Project   string
	Timestamp time.Time
	Summary   model.Summary
}

// SaveRun stores a classification for a project and returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, project string, c *model.Classification) (int64, error) {
	if c == nil {
		c = model.NewClassification()
	}

	data, err := json.Marshal(c)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize classification: %w", err)
	}
	summary := c.Summary()

	query := `
	INSERT INTO runs (project, timestamp, classification_json, single_count, multi_count)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		project,
		time.Now().UTC().Format(time.DateTime),
		string(data),
		summary.SingleLicenseCount,
		summary.MultiLicenseCount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// ListProjects returns the distinct project names that have saved runs.
func (hdb *HistoryDB) ListProjects(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT project FROM runs
	ORDER BY project
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var project string
		if err := rows.Scan(&project); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// GetHistory returns run metadata for a project, newest first.
func (hdb *HistoryDB) GetHistory(ctx context.Context, project string) ([]RunMetadata, error) {
	query := `
	SELECT id, project, timestamp, single_count, multi_count
	FROM runs
	WHERE project = ?
	ORDER BY id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, project)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.Project, &timestamp,
			&meta.Summary.SingleLicenseCount, &meta.Summary.MultiLicenseCount); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// LatestRuns returns up to n of the most recent runs for a project, newest first.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, project string, n int) ([]*Run, error) {
	query := `
	SELECT id, project, timestamp, classification_json
	FROM runs
	WHERE project = ?
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, project, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRunByID retrieves a run by its database ID.
// ErrNotFound is returned if no such run exists.
func (hdb *HistoryDB) GetRunByID(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, project, timestamp, classification_json
	FROM runs
	WHERE id = ?
	`

	run, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one run row and decodes its classification.
func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var timestamp, data string

	if err := row.Scan(&run.ID, &run.Project, &timestamp, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Timestamp = parseTimestamp(timestamp)

	run.Classification = model.NewClassification()
	if err := json.Unmarshal([]byte(data), run.Classification); err != nil {
		return nil, fmt.Errorf("failed to parse run %d: %w", run.ID, err)
	}

	return &run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.DateTime,             // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp parses a timestamp using each known format in turn.
// It returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
