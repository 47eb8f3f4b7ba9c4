package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schollz/progressbar/v3"

	"sunit/internal/config"
)

// SchemaMigrator implements Migrator for the SQL storage drivers
type SchemaMigrator struct {
	config          *config.Config
	databaseManager *DatabaseManager
	logger          *slog.Logger
	out             io.Writer
}

// NewSchemaMigrator creates a new SchemaMigrator
func NewSchemaMigrator(cfg *config.Config, dbManager *DatabaseManager, logger *slog.Logger) *SchemaMigrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaMigrator{
		config:          cfg,
		databaseManager: dbManager,
		logger:          logger,
		out:             os.Stderr,
	}
}

// Run creates the database (MySQL only) and the report tables of the configured driver.
func (sm *SchemaMigrator) Run(ctx context.Context) error {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║               Provisioning Results Schema                  ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")

	driver := sm.config.Storage.Driver
	switch driver {
	case config.DriverMySQL:
		created, err := sm.databaseManager.CheckAndCreateDatabase(ctx)
		if err != nil {
			return fmt.Errorf("failed to check database: %w", err)
		}
		if created {
			color.Green("Created database %s", sm.config.Database.Name)
		}
		db, err := sm.databaseManager.Open(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		return sm.apply(ctx, driver, MySQLSchema, mysqlExec(db))

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, sm.config.PostgresDSN())
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pool.Close()
		return sm.apply(ctx, driver, PostgresSchema, postgresExec(pool))

	default:
		color.Yellow("Storage driver %q has no schema, nothing to migrate", driver)
		return nil
	}
}

func (sm *SchemaMigrator) apply(ctx context.Context, driver string, statements []string, exec execFunc) error {
	color.White("Driver: %s | Statements: %d\n\n", driver, len(statements))

	bar := progressbar.NewOptions(len(statements),
		progressbar.OptionSetDescription(color.CyanString("Migrating: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(sm.out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(sm.out, "\n")
		}),
	)

	if err := applyStatements(ctx, statements, exec, func() { _ = bar.Add(1) }); err != nil {
		return err
	}
	sm.logger.Info("schema applied", "driver", driver, "statements", len(statements))
	color.Green("✓ Schema is up to date")
	return nil
}

// execFunc executes one DDL statement.
type execFunc func(ctx context.Context, stmt string) error

func mysqlExec(db *sql.DB) execFunc {
	return func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}
}

func postgresExec(pool *pgxpool.Pool) execFunc {
	return func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	}
}

func applyStatements(ctx context.Context, statements []string, exec execFunc, done func()) error {
	for i, stmt := range statements {
		if err := exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
		if done != nil {
			done()
		}
	}
	return nil
}

// EnsureMySQL applies the MySQL schema on db.
func EnsureMySQL(ctx context.Context, db *sql.DB) error {
	return applyStatements(ctx, MySQLSchema, mysqlExec(db), nil)
}

// EnsurePostgres applies the PostgreSQL schema on pool.
func EnsurePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	return applyStatements(ctx, PostgresSchema, postgresExec(pool), nil)
}
