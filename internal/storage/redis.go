package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"sunit/internal/config"
	"sunit/internal/domain"
)

const (
	redisKeyPrefix = "sunit:"
	redisLastKey   = redisKeyPrefix + "report:last"
	redisRunsKey   = redisKeyPrefix + "runs"
)

func redisReportKey(runID string) string {
	return redisKeyPrefix + "report:" + runID
}

// RedisStorage keeps the last reports in Redis as JSON documents.
// The run IDs are kept newest first in a list trimmed to the history size.
type RedisStorage struct {
	client  redis.UniversalClient
	history int
	logger  *slog.Logger
}

// OpenRedis connects to Redis.
func OpenRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStorage(client, cfg.Redis.History, logger), nil
}

// NewRedisStorage wraps a client. A history below one keeps only the last run.
func NewRedisStorage(client redis.UniversalClient, history int, logger *slog.Logger) *RedisStorage {
	if history < 1 {
		history = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStorage{client: client, history: history, logger: logger}
}

// SaveOutput stores the report and makes it the last one.
func (s *RedisStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error {
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	runID := output.Meta.RunID

	current, err := s.client.LRange(ctx, redisRunsKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read run history: %w", err)
	}
	stale := staleRuns(current, runID, s.history)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisReportKey(runID), data, 0)
		pipe.Set(ctx, redisLastKey, runID, 0)
		pipe.LRem(ctx, redisRunsKey, 0, runID)
		pipe.LPush(ctx, redisRunsKey, runID)
		pipe.LTrim(ctx, redisRunsKey, 0, int64(s.history-1))
		for _, id := range stale {
			pipe.Del(ctx, redisReportKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	s.logger.Debug("report saved", "run_id", runID, "dropped", len(stale))
	return nil
}

// staleRuns returns the runs of history that fall out once runID is pushed in front.
func staleRuns(history []string, runID string, size int) []string {
	kept := 1
	var stale []string
	for _, id := range history {
		if id == runID {
			continue
		}
		if kept < size {
			kept++
			continue
		}
		stale = append(stale, id)
	}
	return stale
}

// Load returns the last stored report.
func (s *RedisStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	runID, err := s.client.Get(ctx, redisLastKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	return s.LoadRun(ctx, runID)
}

// LoadRun returns the stored report of a run still in the history.
func (s *RedisStorage) LoadRun(ctx context.Context, runID string) (*domain.TestResultsOutput, error) {
	data, err := s.client.Get(ctx, redisReportKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: run %s", ErrNoResults, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// History returns the stored run IDs, newest first.
func (s *RedisStorage) History(ctx context.Context) ([]string, error) {
	ids, err := s.client.LRange(ctx, redisRunsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read run history: %w", err)
	}
	return ids, nil
}

// Close closes the client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
