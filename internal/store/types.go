package store

import (
	"time"

	"github.com/multicode/codegraph/pkg/schema"
)

// Run is one recorded generation: which graph was compiled for which target,
// how it went, and a checksum of the emitted code so the sync service can
// skip patching unchanged output.
type Run struct {
	ID          string              `json:"id"`
	Graph       string              `json:"graph"`
	Language    string              `json:"language"`
	Success     bool                `json:"success"`
	Nodes       int                 `json:"nodes"`
	Lines       int                 `json:"lines"`
	DurationMs  int64               `json:"duration_ms"`
	Diagnostics []schema.Diagnostic `json:"diagnostics,omitempty"`
	Checksum    string              `json:"checksum,omitempty"` // sha256 of the generated code
	CreatedAt   time.Time           `json:"created_at"`
}

// RunFilter narrows ListRuns results. Zero values mean no constraint.
type RunFilter struct {
	Graph    string
	Language string
	Success  *bool
	Since    *time.Time
	Limit    int
}
