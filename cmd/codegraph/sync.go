package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/internal/logging"
	"github.com/multicode/codegraph/internal/sync"
	"github.com/multicode/codegraph/pkg/schema"
)

// runSync loads a jobs file and keeps each job's marker block up to date on
// its cron schedule. With -once every job runs a single time immediately.
func runSync(cfg Config, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	once := fs.Bool("once", false, "run every job once and exit")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fatalf("usage: codegraph sync [flags] <jobs.json>")
	}

	logger := newLogger(cfg.LogLevel)
	jobs := loadJobsFile(fs.Arg(0))
	runner := sync.RunnerFunc(func(ctx context.Context, job *sync.Job) (string, error) {
		return regenerateJob(ctx, cfg, logger, job)
	})

	if *once {
		ctx := context.Background()
		failed := false
		for _, job := range jobs {
			sum, err := runner.Regenerate(ctx, job)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: job %s: %v\n", job.ID, err)
				failed = true
				continue
			}
			fmt.Printf("%s  %s -> %s#%s  %s\n", job.ID, job.GraphPath, job.TargetPath, job.BlockID, shortChecksum(sum))
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	service := sync.NewService(runner, logger)
	for _, job := range jobs {
		if err := service.AddJob(job); err != nil {
			fatalf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.Start(ctx); err != nil {
		fatalf("%v", err)
	}
	<-ctx.Done()
	if err := service.Stop(); err != nil {
		fatalf("%v", err)
	}
}

// loadJobsFile decodes the jobs file: a JSON array of job objects.
func loadJobsFile(path string) []*sync.Job {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("cannot read %s: %v", path, err)
	}
	var jobs []*sync.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		fatalf("cannot decode %s: %v", path, err)
	}
	for i, job := range jobs {
		if job.ID == "" || job.GraphPath == "" || job.TargetPath == "" || job.BlockID == "" {
			fatalf("job %d: id, graph, target and block are all required", i)
		}
	}
	return jobs
}

// regenerateJob is the sync pipeline: load graph, generate, patch the target
// block. Returns the checksum of the generated code for change detection.
func regenerateJob(ctx context.Context, cfg Config, logger *slog.Logger, job *sync.Job) (string, error) {
	data, err := os.ReadFile(job.GraphPath)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", job.GraphPath, err)
	}
	g, err := schema.DecodeGraph(data)
	if err != nil {
		return "", fmt.Errorf("cannot decode %s: %w", job.GraphPath, err)
	}

	language := job.Language
	if language == "" {
		language = cfg.Language
	}
	compiler, err := codegen.For(language, codegen.Options{Logger: logger})
	if err != nil {
		return "", err
	}

	// The timestamp header would make every run look changed.
	opts := schema.DefaultOptions()
	opts.IncludeHeaders = false

	ctx = logging.WithGraphID(ctx, g.Name)
	result := compiler.Generate(g, opts)
	recordRun(ctx, logger, cfg, g, language, result)
	if !result.Success {
		return "", generationError(result)
	}

	if err := patchFile(job.TargetPath, job.BlockID, result.Code); err != nil {
		return "", err
	}
	return checksum(result.Code), nil
}

// generationError folds a failed result's diagnostics into one error value.
func generationError(result *schema.GenerationResult) error {
	err := schema.NewError(schema.ErrCodeSync, "generation failed")
	details := make(map[string]any, len(result.Errors))
	for _, d := range result.Errors {
		details[d.Code] = d.Message
	}
	return err.WithDetails(details)
}
