package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	domainerrors "cyclewatch/internal/core/errors"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5

	// Fixed-width timestamps keep ts_utc ordering lexicographic.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL keep live-mode writes from tripping over readers.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, openError(cleanPath, "ping sqlite history", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, openError(cleanPath, "initialize sqlite schema", err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

// openError marks a damaged database file so callers can tell it apart from
// a transient open failure.
func openError(path, msg string, err error) error {
	code := domainerrors.CodeHistoryFailed
	if IsCorruptError(err) {
		code = domainerrors.CodeHistoryCorrupt
		msg = "history database is corrupt, delete it to start a new history"
	}
	return domainerrors.AddContext(domainerrors.Wrap(err, code, msg), domainerrors.CtxPath, path)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun persists run and its cycle lines in one transaction. Missing ID,
// project key and timestamp are filled in; the stored run is returned.
func (s *Store) SaveRun(run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.ProjectKey = normalizeProjectKey(run.ProjectKey)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.SchemaVersion == 0 {
		run.SchemaVersion = SchemaVersion
	}
	if run.SchemaVersion != SchemaVersion {
		return Run{}, fmt.Errorf("unsupported run schema version %d", run.SchemaVersion)
	}
	if run.Mode == "" {
		return Run{}, fmt.Errorf("run mode must not be empty")
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
INSERT INTO runs (id, project_key, schema_version, mode, ts_utc, cycle_count, total_length, longest)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.ProjectKey,
			run.SchemaVersion,
			string(run.Mode),
			run.Timestamp.UTC().Format(timestampLayout),
			run.CycleCount,
			run.TotalLength,
			run.Longest,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		for i, cycle := range run.Cycles {
			if _, err := tx.Exec(`INSERT INTO run_cycles (run_id, position, cycle) VALUES (?, ?, ?)`, run.ID, i, cycle); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// LoadRuns returns runs for projectKey in timestamp order. An empty mode
// matches every mode; a zero since matches every timestamp. Cycle lines are
// not loaded.
func (s *Store) LoadRuns(projectKey string, mode Mode, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, project_key, schema_version, mode, ts_utc, cycle_count, total_length, longest
FROM runs
WHERE project_key = ?`
	args := []any{normalizeProjectKey(projectKey)}
	if mode != "" {
		query += " AND mode = ?"
		args = append(args, string(mode))
	}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(timestampLayout))
	}
	query += " ORDER BY ts_utc ASC, id ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run   Run
			mode  string
			tsRaw string
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&run.SchemaVersion,
			&mode,
			&tsRaw,
			&run.CycleCount,
			&run.TotalLength,
			&run.Longest,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Mode = Mode(mode)
		run.Timestamp = ts.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// LoadCycles returns the cycle lines of a run in their saved order.
func (s *Store) LoadCycles(runID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load cycles", func() error {
		var qErr error
		rows, qErr = s.db.Query(`SELECT cycle FROM run_cycles WHERE run_id = ? ORDER BY position ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cycles := make([]string, 0)
	for rows.Next() {
		var cycle string
		if err := rows.Scan(&cycle); err != nil {
			return nil, fmt.Errorf("scan cycle row: %w", err)
		}
		cycles = append(cycles, cycle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle rows: %w", err)
	}
	return cycles, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return domainerrors.AddContext(
		domainerrors.Wrap(lastErr, domainerrors.CodeHistoryFailed, "history store"),
		domainerrors.CtxOperation, op,
	)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func normalizeProjectKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "default"
	}
	return key
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
