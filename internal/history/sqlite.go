package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
)

// SQLiteStore persists reports in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	url         TEXT NOT NULL,
	overall     REAL NOT NULL,
	analyzed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_url_time ON reports(url, analyzed_at DESC);
`

// NewSQLiteStore opens (creating if needed) the report history database under
// dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "report_history.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append stores one report. Reports without a URL are skipped; there is
// nothing to build a series on.
func (s *SQLiteStore) Append(ctx context.Context, report analysis.Report) error {
	if report.URL == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, url, overall, analyzed_at) VALUES (?, ?, ?, ?)`,
		report.ID, report.URL, report.Overall, report.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("failed to append report: %w", err)
	}
	return nil
}

// Window returns up to n most recent reports for a URL, newest first.
func (s *SQLiteStore) Window(ctx context.Context, url string, n int) ([]StoredReport, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, overall, analyzed_at FROM reports WHERE url = ? ORDER BY analyzed_at DESC LIMIT ?`,
		url, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query report window: %w", err)
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		var r StoredReport
		if err := rows.Scan(&r.ID, &r.URL, &r.Overall, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
