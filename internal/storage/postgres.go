package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunit/internal/config"
	"sunit/internal/domain"
	"sunit/internal/migration"
)

// PostgresStorage keeps every run report in PostgreSQL.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres connects to PostgreSQL and applies the schema.
func OpenPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*PostgresStorage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migration.EnsurePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgresStorage(pool, logger), nil
}

// NewPostgresStorage wraps an open pool.
func NewPostgresStorage(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStorage{pool: pool, logger: logger}
}

const (
	pgUpsertRun = `INSERT INTO ` + migration.RunsTable + `
		(id, total_suites, aborted_suites, teardown_failures, total_tests, passed_tests, failed_tests,
		 total_cases, failed_cases, duration, duration_seconds, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			total_suites = EXCLUDED.total_suites, aborted_suites = EXCLUDED.aborted_suites,
			teardown_failures = EXCLUDED.teardown_failures, total_tests = EXCLUDED.total_tests,
			passed_tests = EXCLUDED.passed_tests, failed_tests = EXCLUDED.failed_tests,
			total_cases = EXCLUDED.total_cases, failed_cases = EXCLUDED.failed_cases,
			duration = EXCLUDED.duration, duration_seconds = EXCLUDED.duration_seconds,
			finished_at = EXCLUDED.finished_at`
	pgDeleteFailures = `DELETE FROM ` + migration.FailuresTable + ` WHERE run_id = $1`
	pgInsertFailure  = `INSERT INTO ` + migration.FailuresTable + `
		(run_id, position, suite, test_name, case_index, phase, message, error_chain, stack_trace, file, line, resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	pgLastRun = `SELECT id, total_suites, aborted_suites, teardown_failures, total_tests, passed_tests,
		failed_tests, total_cases, failed_cases, duration, duration_seconds, finished_at
		FROM ` + migration.RunsTable + ` ORDER BY created_at DESC LIMIT 1`
	pgFailures = `SELECT suite, test_name, case_index, phase, message, error_chain, stack_trace, file, line, resolved
		FROM ` + migration.FailuresTable + ` WHERE run_id = $1 ORDER BY position`
)

// SaveOutput writes the run and its failures in one transaction.
func (s *PostgresStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error {
	m := output.Meta
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		batch.Queue(pgUpsertRun, runArgs(m)...)
		batch.Queue(pgDeleteFailures, m.RunID)
		for i, f := range output.Details {
			batch.Queue(pgInsertFailure, failureArgs(m.RunID, i, f)...)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	s.logger.Debug("report saved", "run_id", m.RunID, "failures", len(output.Details))
	return nil
}

// Load returns the most recent run.
func (s *PostgresStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	var output domain.TestResultsOutput
	m := &output.Meta
	err := s.pool.QueryRow(ctx, pgLastRun).Scan(
		&m.RunID, &m.TotalSuites, &m.AbortedSuites, &m.TeardownFails, &m.TotalTests, &m.PassedTests,
		&m.FailedTests, &m.TotalCases, &m.FailedCases, &m.Duration, &m.DurationSeconds, &m.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	rows, err := s.pool.Query(ctx, pgFailures, m.RunID)
	if err != nil {
		return nil, fmt.Errorf("load failures: %w", err)
	}
	details, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TestFailure, error) {
		var (
			f            domain.TestFailure
			chain, stack string
		)
		err := row.Scan(&f.Suite, &f.TestName, &f.Case, &f.Phase, &f.Message, &chain, &stack, &f.File, &f.Line, &f.Resolved)
		f.ErrorChain = decodeLines(chain)
		f.StackTrace = decodeLines(stack)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("load failures: %w", err)
	}
	output.Details = details
	return &output, nil
}

// Close closes the pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
