package migration

import "context"

// Migrator provisions the report schema of a storage driver
type Migrator interface {
	Run(ctx context.Context) error
}
