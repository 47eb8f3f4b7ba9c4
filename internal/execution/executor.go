package execution

import (
	"context"

	"sunit/internal/domain"
)

// Executor executes discovered suites and returns the aggregate
type Executor interface {
	Run(ctx context.Context, suites []domain.SuiteDescriptor) (domain.Summary, error)
}
