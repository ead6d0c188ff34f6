// Package sync keeps generated blocks in target source files up to date:
// each job regenerates a graph on a cron schedule and patches its block only
// when the generated code actually changed.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job binds one graph document to one marker block in one target file.
type Job struct {
	ID             string `json:"id"`
	GraphPath      string `json:"graph"`
	TargetPath     string `json:"target"`
	BlockID        string `json:"block"`
	Language       string `json:"language"`
	CronExpression string `json:"schedule"`

	nextRunAt    time.Time
	lastRunAt    time.Time
	lastStatus   string
	lastChecksum string
}

// Runner regenerates a job's graph and patches its target block. It returns
// the checksum of the generated code so the service can detect no-op runs.
// Satisfied by the CLI's generate-and-patch pipeline (avoids import cycle).
type Runner interface {
	Regenerate(ctx context.Context, job *Job) (checksum string, err error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, job *Job) (string, error)

func (f RunnerFunc) Regenerate(ctx context.Context, job *Job) (string, error) {
	return f(ctx, job)
}

// Service runs registered jobs when their cron schedule is due.
type Service struct {
	runner   Runner
	parser   cron.Parser
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex

	jobsMu sync.Mutex
	jobs   map[string]*Job

	inflightMu sync.Mutex
	inflight   map[string]struct{} // job IDs currently executing (dedup)
}

// NewService creates a sync Service ticking once per minute.
func NewService(runner Runner, logger *slog.Logger) *Service {
	return &Service{
		runner:   runner,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		logger:   logger,
		interval: 60 * time.Second,
		jobs:     make(map[string]*Job),
		inflight: make(map[string]struct{}),
	}
}

// AddJob registers a job and computes its first due time. A job with an
// invalid cron expression is rejected.
func (s *Service) AddJob(job *Job) error {
	next, err := s.CalculateNextRun(job.CronExpression, time.Now().UTC())
	if err != nil {
		return err
	}
	job.nextRunAt = next

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("sync job %q already registered", job.ID)
	}
	s.jobs[job.ID] = job
	return nil
}

// Jobs returns a snapshot of the registered jobs.
func (s *Service) Jobs() []*Job {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}

// Start launches the background loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return fmt.Errorf("sync service already started")
	}

	svcCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.loop(svcCtx)
	s.logger.Info("sync service started", slog.Int("jobs", len(s.Jobs())))
	return nil
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run an initial tick immediately.
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs every registered job that is due.
func (s *Service) tick(ctx context.Context) {
	now := time.Now().UTC()
	for _, job := range s.Jobs() {
		if job.nextRunAt.After(now) {
			continue
		}
		if !s.tryAcquire(job.ID) {
			continue // already running (dedup)
		}
		if err := s.runJob(ctx, job, now); err != nil {
			s.logger.Error("sync job failed",
				slog.String("job_id", job.ID),
				slog.String("error", err.Error()),
			)
		}
		s.release(job.ID)
	}
}

// runJob regenerates the job and updates its schedule bookkeeping.
func (s *Service) runJob(ctx context.Context, job *Job, now time.Time) error {
	s.logger.Info("running sync job",
		slog.String("job_id", job.ID),
		slog.String("graph", job.GraphPath),
		slog.String("target", job.TargetPath),
	)

	checksum, err := s.runner.Regenerate(ctx, job)
	status := "success"
	switch {
	case err != nil:
		status = "error"
		s.logger.Error("sync job regeneration failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	case checksum == job.lastChecksum && checksum != "":
		status = "unchanged"
	}

	job.lastRunAt = now
	job.lastStatus = status
	if err == nil {
		job.lastChecksum = checksum
	}

	next, nerr := s.CalculateNextRun(job.CronExpression, now)
	if nerr != nil {
		return fmt.Errorf("calculate next run for job %q: %w", job.ID, nerr)
	}
	job.nextRunAt = next
	return err
}

// tryAcquire returns true and marks the job as in-flight if it is not already running.
func (s *Service) tryAcquire(jobID string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, ok := s.inflight[jobID]; ok {
		return false
	}
	s.inflight[jobID] = struct{}{}
	return true
}

// release removes the job from the in-flight set.
func (s *Service) release(jobID string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, jobID)
}

// CalculateNextRun computes the next run time for a cron expression.
func (s *Service) CalculateNextRun(cronExpr string, from time.Time) (time.Time, error) {
	schedule, err := s.parser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return schedule.Next(from), nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil

	s.logger.Info("sync service stopped")
	return nil
}
