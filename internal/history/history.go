package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB records wrapper invocations and the arguments they refused to
// forward. The database is entirely optional: the wrapper protects
// files just the same without it, and callers treat any error here as
// a diagnostic, never a failure.
type DB struct {
	db *sql.DB
}

// Event actions
const (
	ActionSkipped = "skipped" // an argument was dropped before forwarding
	ActionRun     = "run"     // the real rm was invoked
)

// Event is one recorded occurrence: either a skipped argument or a
// completed forwarding run.
type Event struct {
	ID         int64
	Timestamp  time.Time
	Action     string
	Argument   string // original argument for skips, rm binary for runs
	Normalized string // canonical form that matched the protected set
	ExitCode   *int   // relayed exit code, runs only
	CreatedAt  time.Time
}

// Stats summarizes recorded events over a period.
type Stats struct {
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	TotalRuns    int64            `json:"total_runs"`
	TotalSkipped int64            `json:"total_skipped"`
	ByAction     map[string]int64 `json:"by_action"`
}

// Open creates the database connection and initializes the schema,
// creating the parent directory when needed.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A plain query instead of Ping() so the file is created on first use.
	if _, err = db.Exec("SELECT 1"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	// WAL allows safe-rm-query to read while the wrapper writes.
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	h := &DB{db: db}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		argument TEXT NOT NULL,
		normalized TEXT,
		exit_code INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_action ON events(action);
	CREATE INDEX IF NOT EXISTS idx_events_argument ON events(argument);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := d.db.Exec(schema)
	return err
}

// RecordSkip inserts one skipped-argument event.
func (d *DB) RecordSkip(argument, normalized string) error {
	_, err := d.db.Exec(
		`INSERT INTO events (timestamp, action, argument, normalized) VALUES (?, ?, ?, ?)`,
		time.Now(), ActionSkipped, argument, normalized,
	)
	return err
}

// RecordRun inserts one forwarding event with the relayed exit code.
func (d *DB) RecordRun(binary string, exitCode int) error {
	_, err := d.db.Exec(
		`INSERT INTO events (timestamp, action, argument, exit_code) VALUES (?, ?, ?, ?)`,
		time.Now(), ActionRun, binary, exitCode,
	)
	return err
}

// Recent returns the most recent events, newest first.
func (d *DB) Recent(limit int) ([]Event, error) {
	return d.query(
		`SELECT id, timestamp, action, argument, normalized, exit_code, created_at
		 FROM events ORDER BY timestamp DESC LIMIT ?`, limit)
}

// Skipped returns the most recent skipped-argument events, newest first.
func (d *DB) Skipped(limit int) ([]Event, error) {
	return d.query(
		`SELECT id, timestamp, action, argument, normalized, exit_code, created_at
		 FROM events WHERE action = ? ORDER BY timestamp DESC LIMIT ?`,
		ActionSkipped, limit)
}

// ByArgument returns events whose argument matches the SQL LIKE pattern.
func (d *DB) ByArgument(pattern string) ([]Event, error) {
	return d.query(
		`SELECT id, timestamp, action, argument, normalized, exit_code, created_at
		 FROM events WHERE argument LIKE ? ORDER BY timestamp DESC`, pattern)
}

func (d *DB) query(q string, args ...any) ([]Event, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var normalized sql.NullString
		var exitCode sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.Argument,
			&normalized, &exitCode, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Normalized = normalized.String
		if exitCode.Valid {
			code := int(exitCode.Int64)
			e.ExitCode = &code
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetStats summarizes events over the last N days.
func (d *DB) GetStats(days int) (*Stats, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	stats := &Stats{
		StartDate: start,
		EndDate:   end,
		ByAction:  make(map[string]int64),
	}

	rows, err := d.db.Query(
		`SELECT action, COUNT(*) FROM events WHERE timestamp >= ? GROUP BY action`, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action string
		var count int64
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		stats.ByAction[action] = count
		switch action {
		case ActionRun:
			stats.TotalRuns = count
		case ActionSkipped:
			stats.TotalSkipped = count
		}
	}
	return stats, rows.Err()
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
