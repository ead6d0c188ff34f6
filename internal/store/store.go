// Package store persists generation history: one row per Generate call, with
// its outcome, diagnostics and a checksum of the produced code. The history
// backs the history command and the scheduled sync service's change
// detection.
package store

import "context"

// Store defines the persistence layer contract.
// All implementations must be safe for concurrent use.
type Store interface {
	// Generation runs
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
	LatestRun(ctx context.Context, graph, language string) (*Run, error)
	DeleteRunsBefore(ctx context.Context, cutoff string) (int64, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Vacuum(ctx context.Context) error

	// Lifecycle
	Close() error
}
