package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJob(id string) *Job {
	return &Job{
		ID:             id,
		GraphPath:      "graphs/demo.json",
		TargetPath:     "src/main.cpp",
		BlockID:        "main",
		Language:       "cpp",
		CronExpression: "*/5 * * * *",
	}
}

func TestAddJob_InvalidCronRejected(t *testing.T) {
	s := NewService(RunnerFunc(func(context.Context, *Job) (string, error) { return "", nil }), discardLogger())

	job := testJob("j1")
	job.CronExpression = "not a schedule"
	assert.Error(t, s.AddJob(job))
}

func TestAddJob_DuplicateRejected(t *testing.T) {
	s := NewService(RunnerFunc(func(context.Context, *Job) (string, error) { return "", nil }), discardLogger())

	require.NoError(t, s.AddJob(testJob("j1")))
	assert.Error(t, s.AddJob(testJob("j1")))
	assert.Len(t, s.Jobs(), 1)
}

func TestCalculateNextRun(t *testing.T) {
	s := NewService(nil, discardLogger())

	from := time.Date(2026, 3, 1, 12, 2, 0, 0, time.UTC)
	next, err := s.CalculateNextRun("*/5 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC), next)

	_, err = s.CalculateNextRun("bogus", from)
	assert.Error(t, err)
}

func TestTick_RunsDueJob(t *testing.T) {
	var calls atomic.Int32
	s := NewService(RunnerFunc(func(_ context.Context, job *Job) (string, error) {
		calls.Add(1)
		return "abc123", nil
	}), discardLogger())

	job := testJob("j1")
	require.NoError(t, s.AddJob(job))
	job.nextRunAt = time.Now().UTC().Add(-time.Minute) // force due

	s.tick(context.Background())

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "success", job.lastStatus)
	assert.Equal(t, "abc123", job.lastChecksum)
	assert.True(t, job.nextRunAt.After(time.Now().UTC()))
}

func TestTick_SkipsJobNotDue(t *testing.T) {
	var calls atomic.Int32
	s := NewService(RunnerFunc(func(context.Context, *Job) (string, error) {
		calls.Add(1)
		return "", nil
	}), discardLogger())

	job := testJob("j1")
	require.NoError(t, s.AddJob(job))
	job.nextRunAt = time.Now().UTC().Add(time.Hour)

	s.tick(context.Background())
	assert.EqualValues(t, 0, calls.Load())
}

func TestTick_UnchangedChecksum(t *testing.T) {
	s := NewService(RunnerFunc(func(context.Context, *Job) (string, error) {
		return "same", nil
	}), discardLogger())

	job := testJob("j1")
	require.NoError(t, s.AddJob(job))

	job.nextRunAt = time.Now().UTC().Add(-time.Minute)
	s.tick(context.Background())
	assert.Equal(t, "success", job.lastStatus)

	job.nextRunAt = time.Now().UTC().Add(-time.Minute)
	s.tick(context.Background())
	assert.Equal(t, "unchanged", job.lastStatus)
}

func TestTick_RunnerErrorRecorded(t *testing.T) {
	s := NewService(RunnerFunc(func(context.Context, *Job) (string, error) {
		return "", errors.New("target file vanished")
	}), discardLogger())

	job := testJob("j1")
	require.NoError(t, s.AddJob(job))
	job.lastChecksum = "keep"
	job.nextRunAt = time.Now().UTC().Add(-time.Minute)

	s.tick(context.Background())

	assert.Equal(t, "error", job.lastStatus)
	assert.Equal(t, "keep", job.lastChecksum, "failed runs must not clobber the checksum")
}

func TestStartStop(t *testing.T) {
	s := NewService(RunnerFunc(func(context.Context, *Job) (string, error) { return "", nil }), discardLogger())

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()), "double start must fail")
	require.NoError(t, s.Stop())

	// Stop is idempotent.
	require.NoError(t, s.Stop())

	// Restart after stop works.
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
}
