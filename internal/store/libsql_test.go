package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/pkg/schema"
)

func newTestStore(t *testing.T) *LibSQLStore {
	t.Helper()
	dbPath := "file:" + filepath.Join(t.TempDir(), "history.db")
	s, err := NewLibSQLStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRun(graph string, success bool) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Graph:      graph,
		Language:   "cpp",
		Success:    success,
		Nodes:      7,
		Lines:      42,
		DurationMs: 3,
		Checksum:   "deadbeef",
	}
}

func TestRecordAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := testRun("demo", true)
	run.Diagnostics = []schema.Diagnostic{
		{Code: schema.CodeUnusedNode, NodeID: "n9", Message: "node is never executed"},
	}
	require.NoError(t, s.RecordRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Graph, got.Graph)
	assert.Equal(t, "cpp", got.Language)
	assert.True(t, got.Success)
	assert.Equal(t, 7, got.Nodes)
	assert.Equal(t, "deadbeef", got.Checksum)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, schema.CodeUnusedNode, got.Diagnostics[0].Code)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	var ce *schema.CodegraphError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, schema.ErrCodeNotFound, ce.Code)
}

func TestListRuns_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRun(ctx, testRun("alpha", true)))
	require.NoError(t, s.RecordRun(ctx, testRun("alpha", false)))
	require.NoError(t, s.RecordRun(ctx, testRun("beta", true)))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alpha, err := s.ListRuns(ctx, RunFilter{Graph: "alpha"})
	require.NoError(t, err)
	assert.Len(t, alpha, 2)

	failed := false
	failures, err := s.ListRuns(ctx, RunFilter{Success: &failed})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "alpha", failures[0].Graph)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := testRun("demo", false)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testRun("demo", true)
	newer.CreatedAt = time.Now().UTC()

	require.NoError(t, s.RecordRun(ctx, older))
	require.NoError(t, s.RecordRun(ctx, newer))

	latest, err := s.LatestRun(ctx, "demo", "cpp")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.True(t, latest.Success)

	_, err = s.LatestRun(ctx, "ghost", "cpp")
	assert.Error(t, err)
}

func TestDeleteRunsBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := testRun("demo", true)
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	recent := testRun("demo", true)
	recent.CreatedAt = time.Now().UTC()

	require.NoError(t, s.RecordRun(ctx, old))
	require.NoError(t, s.RecordRun(ctx, recent))

	cutoff := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	dropped, err := s.DeleteRunsBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dropped)

	remaining, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, recent.ID, remaining[0].ID)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}
