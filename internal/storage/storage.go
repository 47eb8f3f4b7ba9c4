package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sunit/internal/config"
	"sunit/internal/domain"
)

// ErrNoResults is returned by Load when no run has been stored yet.
var ErrNoResults = errors.New("no stored test results")

// Storage persists and loads test run reports (e.g. for the faills viewer and --failed).
type Storage interface {
	Load(ctx context.Context) (*domain.TestResultsOutput, error)
	// SaveOutput writes the full report, replacing a stored report with the same run ID.
	SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error
	Close() error
}

// Save stores the report of a finished run under a fresh run ID and returns it.
func Save(ctx context.Context, st Storage, summary domain.Summary) (*domain.TestResultsOutput, error) {
	report := domain.NewReport(uuid.NewString(), summary, time.Now())
	if err := st.SaveOutput(ctx, &report); err != nil {
		return nil, fmt.Errorf("save test results: %w", err)
	}
	return &report, nil
}

// Open returns the storage selected by the storage.driver setting.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverJSON, "":
		return NewJSONStorage(cfg), nil
	case config.DriverMySQL:
		return OpenMySQL(ctx, cfg, logger)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg, logger)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// encodeLines stores a string list in a single text column.
func encodeLines(lines []string) string {
	if len(lines) == 0 {
		return "[]"
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeLines(s string) []string {
	var lines []string
	if err := json.Unmarshal([]byte(s), &lines); err != nil || len(lines) == 0 {
		return nil
	}
	return lines
}
