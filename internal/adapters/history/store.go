// Package history persists batch reports so past runs can be listed and
// inspected after the process that ran them has exited.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // pure Go, no CGO

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// Config selects the backing database.
type Config struct {
	Type string // sqlite or mysql
	Path string // sqlite file
	DSN  string // mysql DSN
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS batch_runs (
		run_id      TEXT PRIMARY KEY,
		dry_run     INTEGER NOT NULL,
		total       INTEGER NOT NULL,
		succeeded   INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_batch_runs_started ON batch_runs(started_at)`,
	`CREATE TABLE IF NOT EXISTS batch_items (
		run_id        TEXT NOT NULL,
		position      INTEGER NOT NULL,
		advertiser_id TEXT NOT NULL,
		creative_id   TEXT NOT NULL,
		status        TEXT NOT NULL,
		detail        TEXT NOT NULL,
		variant       TEXT NOT NULL,
		result_json   TEXT,
		PRIMARY KEY (run_id, position)
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS batch_runs (
		run_id      VARCHAR(64) NOT NULL PRIMARY KEY,
		dry_run     BOOLEAN NOT NULL,
		total       INT NOT NULL,
		succeeded   INT NOT NULL,
		failed      INT NOT NULL,
		started_at  BIGINT NOT NULL,
		finished_at BIGINT NOT NULL,
		INDEX idx_batch_runs_started (started_at)
	)`,
	`CREATE TABLE IF NOT EXISTS batch_items (
		run_id        VARCHAR(64) NOT NULL,
		position      INT NOT NULL,
		advertiser_id VARCHAR(64) NOT NULL,
		creative_id   VARCHAR(64) NOT NULL,
		status        VARCHAR(16) NOT NULL,
		detail        TEXT NOT NULL,
		variant       VARCHAR(32) NOT NULL,
		result_json   LONGTEXT,
		PRIMARY KEY (run_id, position)
	)`,
}

// Store implements ports.RunStore over database/sql.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes writers; sqlite allows one
}

// Open connects to the configured database and creates the tables.
func Open(cfg Config) (*Store, error) {
	var (
		db     *sql.DB
		err    error
		schema []string
	)

	switch cfg.Type {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("history: create dir: %w", err)
			}
		}
		dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		if db, err = sql.Open("sqlite", dsn); err != nil {
			return nil, fmt.Errorf("history: open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		schema = sqliteSchema
	case "mysql":
		if db, err = sql.Open("mysql", cfg.DSN); err != nil {
			return nil, fmt.Errorf("history: open mysql: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		schema = mysqlSchema
	default:
		return nil, fmt.Errorf("history: unsupported database type %q", cfg.Type)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: create tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a report and its items in one transaction. Saving the same
// run id twice fails.
func (s *Store) SaveRun(ctx context.Context, report domain.BatchReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batch_runs (run_id, dry_run, total, succeeded, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.DryRun, len(report.Items), report.Succeeded, report.Failed,
		report.StartedAt.UnixMilli(), report.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("history: insert run %s: %w", report.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO batch_items (run_id, position, advertiser_id, creative_id, status, detail, variant, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("history: prepare items: %w", err)
	}
	defer stmt.Close()

	for i, item := range report.Items {
		var result sql.NullString
		if item.Result != nil {
			data, err := json.Marshal(item.Result)
			if err != nil {
				return fmt.Errorf("history: encode result for %s: %w", item.CreativeID, err)
			}
			result = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, report.RunID, i, item.AdvertiserID, item.CreativeID,
			string(item.Status), item.Detail, string(item.Variant), result); err != nil {
			return fmt.Errorf("history: insert item %s: %w", item.CreativeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// GetRun loads a full report or returns domain.ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, runID string) (*domain.BatchReport, error) {
	var (
		report   domain.BatchReport
		total    int
		started  int64
		finished int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, dry_run, total, succeeded, failed, started_at, finished_at
		FROM batch_runs WHERE run_id = ?`, runID).
		Scan(&report.RunID, &report.DryRun, &total, &report.Succeeded, &report.Failed, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("history: query run %s: %w", runID, err)
	}
	report.StartedAt = time.UnixMilli(started).UTC()
	report.FinishedAt = time.UnixMilli(finished).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT advertiser_id, creative_id, status, detail, variant, result_json
		FROM batch_items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query items %s: %w", runID, err)
	}
	defer rows.Close()

	report.Items = make([]domain.BatchItemResult, 0, total)
	for rows.Next() {
		var (
			item    domain.BatchItemResult
			status  string
			variant string
			result  sql.NullString
		)
		if err := rows.Scan(&item.AdvertiserID, &item.CreativeID, &status, &item.Detail, &variant, &result); err != nil {
			return nil, fmt.Errorf("history: scan item: %w", err)
		}
		item.Status = domain.ItemStatus(status)
		item.Variant = domain.Variant(variant)
		if result.Valid {
			var rr domain.ReconciliationResult
			if err := json.Unmarshal([]byte(result.String), &rr); err != nil {
				return nil, fmt.Errorf("history: decode result for %s: %w", item.CreativeID, err)
			}
			item.Result = &rr
		}
		report.Items = append(report.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: read items: %w", err)
	}
	return &report, nil
}

// ListRuns returns the newest runs first. A non-positive limit means 50.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, dry_run, total, succeeded, failed, started_at, finished_at
		FROM batch_runs ORDER BY started_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.RunSummary{}
	for rows.Next() {
		var (
			run      domain.RunSummary
			started  int64
			finished int64
		)
		if err := rows.Scan(&run.RunID, &run.DryRun, &run.Total, &run.Succeeded, &run.Failed, &started, &finished); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(started).UTC()
		run.FinishedAt = time.UnixMilli(finished).UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
