package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"

	"sunit/internal/config"
	"sunit/internal/domain"
	"sunit/internal/migration"
)

// MySQLStorage keeps every run report in the MySQL results database.
type MySQLStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenMySQL connects to the results database and applies the schema.
func OpenMySQL(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MySQLStorage, error) {
	connector, err := mysql.NewConnector(cfg.MySQL(true))
	if err != nil {
		return nil, fmt.Errorf("mysql config: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migration.EnsureMySQL(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewMySQLStorage(db, logger), nil
}

// NewMySQLStorage wraps an open database handle.
func NewMySQLStorage(db *sql.DB, logger *slog.Logger) *MySQLStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &MySQLStorage{db: db, logger: logger}
}

const (
	mysqlUpsertRun = "INSERT INTO `" + migration.RunsTable + "` " +
		"(id, total_suites, aborted_suites, teardown_failures, total_tests, passed_tests, failed_tests, " +
		"total_cases, failed_cases, duration, duration_seconds, finished_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE total_suites = VALUES(total_suites), aborted_suites = VALUES(aborted_suites), " +
		"teardown_failures = VALUES(teardown_failures), total_tests = VALUES(total_tests), " +
		"passed_tests = VALUES(passed_tests), failed_tests = VALUES(failed_tests), " +
		"total_cases = VALUES(total_cases), failed_cases = VALUES(failed_cases), " +
		"duration = VALUES(duration), duration_seconds = VALUES(duration_seconds), finished_at = VALUES(finished_at)"
	mysqlDeleteFailures = "DELETE FROM `" + migration.FailuresTable + "` WHERE run_id = ?"
	mysqlInsertFailure  = "INSERT INTO `" + migration.FailuresTable + "` " +
		"(run_id, position, suite, test_name, case_index, phase, message, error_chain, stack_trace, file, line, resolved) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	mysqlLastRun = "SELECT id, total_suites, aborted_suites, teardown_failures, total_tests, passed_tests, " +
		"failed_tests, total_cases, failed_cases, duration, duration_seconds, finished_at " +
		"FROM `" + migration.RunsTable + "` ORDER BY created_at DESC LIMIT 1"
	mysqlFailures = "SELECT suite, test_name, case_index, phase, message, error_chain, stack_trace, file, line, resolved " +
		"FROM `" + migration.FailuresTable + "` WHERE run_id = ? ORDER BY position"
)

// SaveOutput writes the run and its failures in one transaction.
func (s *MySQLStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	m := output.Meta
	if _, err = tx.ExecContext(ctx, mysqlUpsertRun, runArgs(m)...); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if _, err = tx.ExecContext(ctx, mysqlDeleteFailures, m.RunID); err != nil {
		return fmt.Errorf("clear failures: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, mysqlInsertFailure)
	if err != nil {
		return fmt.Errorf("prepare failure insert: %w", err)
	}
	defer stmt.Close()
	for i, f := range output.Details {
		if _, err = stmt.ExecContext(ctx, failureArgs(m.RunID, i, f)...); err != nil {
			return fmt.Errorf("save failure %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("report saved", "run_id", m.RunID, "failures", len(output.Details))
	return nil
}

// Load returns the most recent run.
func (s *MySQLStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	var output domain.TestResultsOutput
	m := &output.Meta
	err := s.db.QueryRowContext(ctx, mysqlLastRun).Scan(
		&m.RunID, &m.TotalSuites, &m.AbortedSuites, &m.TeardownFails, &m.TotalTests, &m.PassedTests,
		&m.FailedTests, &m.TotalCases, &m.FailedCases, &m.Duration, &m.DurationSeconds, &m.Timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, mysqlFailures, m.RunID)
	if err != nil {
		return nil, fmt.Errorf("load failures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			f            domain.TestFailure
			chain, stack string
		)
		if err := rows.Scan(&f.Suite, &f.TestName, &f.Case, &f.Phase, &f.Message, &chain, &stack, &f.File, &f.Line, &f.Resolved); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		f.ErrorChain = decodeLines(chain)
		f.StackTrace = decodeLines(stack)
		output.Details = append(output.Details, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load failures: %w", err)
	}
	return &output, nil
}

// Close closes the database handle.
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

// runArgs are the run columns in insert order.
func runArgs(m domain.TestResultsMeta) []any {
	return []any{
		m.RunID, m.TotalSuites, m.AbortedSuites, m.TeardownFails, m.TotalTests, m.PassedTests,
		m.FailedTests, m.TotalCases, m.FailedCases, m.Duration, m.DurationSeconds, m.Timestamp,
	}
}

// failureArgs are the failure columns in insert order.
func failureArgs(runID string, position int, f domain.TestFailure) []any {
	return []any{
		runID, position, f.Suite, f.TestName, f.Case, f.Phase, f.Message,
		encodeLines(f.ErrorChain), encodeLines(f.StackTrace), f.File, f.Line, f.Resolved,
	}
}
