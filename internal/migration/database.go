package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"sunit/internal/config"
)

// DatabaseManager manages the MySQL results database
type DatabaseManager struct {
	config *config.Config
	logger *slog.Logger
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config, logger *slog.Logger) *DatabaseManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatabaseManager{config: cfg, logger: logger}
}

// CheckAndCreateDatabase creates the results database if it does not exist.
// It reports whether the database had to be created.
func (dm *DatabaseManager) CheckAndCreateDatabase(ctx context.Context) (bool, error) {
	// Connect to MySQL server (without specifying database)
	db, err := sql.Open("mysql", dm.config.MySQL(false).FormatDSN())
	if err != nil {
		return false, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return false, fmt.Errorf("failed to ping database server: %w", err)
	}

	dbName := dm.config.Database.Name
	exists, err := dm.databaseExists(ctx, db, dbName)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return false, nil
	}
	if err := dm.createDatabase(ctx, db, dbName); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	dm.logger.Info("database created", "database", dbName)
	return true, nil
}

// Open connects to the results database.
func (dm *DatabaseManager) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("mysql", dm.config.MySQL(true).FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// databaseExists checks if a database exists
func (dm *DatabaseManager) databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

// createDatabase creates a new database
func (dm *DatabaseManager) createDatabase(ctx context.Context, db *sql.DB, dbName string) error {
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %s", dbName)
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4", dbName)
	_, err := db.ExecContext(ctx, query)
	return err
}

// isValidDatabaseName allows letters, digits, underscores and dollar signs only.
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
		default:
			return false
		}
	}
	return !strings.HasPrefix(name, "$")
}
