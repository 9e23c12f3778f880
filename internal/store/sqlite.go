package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mailwatch/internal/model"
)

// SQLiteStore implements History using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: the job is sequential, and ":memory:" databases are
	// private to the connection that created them.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordRun inserts a run row and one alert per important message.
// If the run has no ID, a new UUID is generated.
func (s *SQLiteStore) RecordRun(
	ctx context.Context,
	run model.Run,
	important []model.Message,
) (*model.Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CheckedAt.IsZero() {
		run.CheckedAt = time.Now()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, job, checked_at,
			unread_count, new_unread_count, important_new_count
		) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Job, run.CheckedAt.UTC(),
		run.UnreadCount, run.NewUnreadCount, run.ImportantNewCount,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	if len(important) > 0 {
		const query = `
			INSERT INTO alerts (
				id, run_id, job, message_id,
				sender, subject, date, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("preparing alert statement: %w", err)
		}
		defer stmt.Close()

		for _, m := range important {
			_, err = stmt.ExecContext(ctx,
				uuid.New().String(), run.ID, run.Job, m.ID,
				m.From, m.Subject, m.Date, run.CheckedAt.UTC(),
			)
			if err != nil {
				return nil, fmt.Errorf("inserting alert for message %s: %w", m.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run %s: %w", run.ID, err)
	}

	return &run, nil
}

// GetRuns retrieves the most recent runs, newest first.
func (s *SQLiteStore) GetRuns(
	ctx context.Context,
	job string,
	limit int,
) ([]model.Run, error) {
	query := `SELECT id, job, checked_at, unread_count, new_unread_count, important_new_count
		FROM runs`
	var args []interface{}
	if job != "" {
		query += " WHERE job = ?"
		args = append(args, job)
	}
	query += " ORDER BY checked_at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetAlerts retrieves alerts matching the provided filter options. Alerts
// of the newest run come first, in the order the run reported them.
func (s *SQLiteStore) GetAlerts(
	ctx context.Context,
	filter AlertFilter,
) ([]model.Alert, error) {
	var conditions []string
	var args []interface{}

	if filter.Job != nil {
		conditions = append(conditions, "job = ?")
		args = append(args, *filter.Job)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(sender LIKE ? OR subject LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := `SELECT id, run_id, job, message_id, sender, subject, date, created_at
		FROM alerts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

// HasAlert reports whether an alert exists for the job and message.
func (s *SQLiteStore) HasAlert(
	ctx context.Context,
	job, messageID string,
) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM alerts WHERE job = ? AND message_id = ?",
		job, messageID,
	)
	if err != nil {
		return false, fmt.Errorf("checking alert %s/%s: %w", job, messageID, err)
	}
	return count > 0, nil
}

// scanRun scans a run row from a sqlx.Rows result set.
func scanRun(rows *sqlx.Rows) (model.Run, error) {
	var (
		run       model.Run
		checkedAt time.Time
	)

	err := rows.Scan(
		&run.ID, &run.Job, &checkedAt,
		&run.UnreadCount, &run.NewUnreadCount, &run.ImportantNewCount,
	)
	if err != nil {
		return model.Run{}, fmt.Errorf("scanning run row: %w", err)
	}

	run.CheckedAt = checkedAt
	return run, nil
}

// scanAlert scans an alert row from a sqlx.Rows result set.
func scanAlert(rows *sqlx.Rows) (model.Alert, error) {
	var (
		alert     model.Alert
		createdAt time.Time
	)

	err := rows.Scan(
		&alert.ID, &alert.RunID, &alert.Job, &alert.MessageID,
		&alert.From, &alert.Subject, &alert.Date, &createdAt,
	)
	if err != nil {
		return model.Alert{}, fmt.Errorf("scanning alert row: %w", err)
	}

	alert.CreatedAt = createdAt
	return alert, nil
}
