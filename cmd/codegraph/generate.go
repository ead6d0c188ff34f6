package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/internal/logging"
	"github.com/multicode/codegraph/internal/markers"
	"github.com/multicode/codegraph/internal/store"
	"github.com/multicode/codegraph/pkg/schema"
)

func runGenerate(cfg Config, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	lang := fs.String("lang", cfg.Language, "target language")
	out := fs.String("o", "", "output file (default: stdout)")
	target := fs.String("target", "", "patch the generated code into this file's marker block instead of writing a whole file")
	block := fs.String("block", "", "marker block id in the target file (default: graph name)")
	indent := fs.Int("indent", 0, "spaces per indent level (0: default)")
	noComments := fs.Bool("no-comments", false, "omit node label comments")
	noHeaders := fs.Bool("no-headers", false, "omit the tool/timestamp header")
	noWrapper := fs.Bool("no-wrapper", false, "omit the entry-point wrapper")
	srcMarkers := fs.Bool("markers", false, "emit per-node source marker comments")
	noHistory := fs.Bool("no-history", false, "do not record this run in the history database")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fatalf("usage: codegraph generate [flags] <graph.json>")
	}

	logger := newLogger(cfg.LogLevel)
	g := loadGraphFile(fs.Arg(0))

	opts := schema.DefaultOptions()
	if *indent > 0 {
		opts.IndentSize = *indent
	}
	if *noComments {
		opts.IncludeComments = false
	}
	if *noHeaders {
		opts.IncludeHeaders = false
	}
	if *noWrapper {
		opts.GenerateEntryWrapper = false
	}
	opts.IncludeSourceMarkers = *srcMarkers
	if *target != "" {
		// Patched blocks must be stable across runs for change detection.
		opts.IncludeHeaders = false
	}

	compiler, err := codegen.For(*lang, codegen.Options{Logger: logger})
	if err != nil {
		fatalf("%v", err)
	}

	ctx := logging.WithGraphID(context.Background(), g.Name)
	result := compiler.Generate(g, opts)

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Code, w.Message)
	}

	if !*noHistory {
		recordRun(ctx, logger, cfg, g, *lang, result)
	}

	if !result.Success {
		for _, d := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s: %s\n", d.Code, d.Message)
		}
		os.Exit(1)
	}

	switch {
	case *target != "":
		id := *block
		if id == "" {
			id = g.Name
		}
		if id == "" {
			fatalf("-block is required when the graph has no name")
		}
		if err := patchFile(*target, id, result.Code); err != nil {
			fatalf("%v", err)
		}
		logger.Info("patched target file",
			slog.String("target", *target),
			slog.String("block", id),
			slog.Int("lines", result.Stats.LinesOfCode))
	case *out != "":
		if err := os.WriteFile(*out, []byte(result.Code), 0o644); err != nil {
			fatalf("cannot write %s: %v", *out, err)
		}
	default:
		fmt.Print(result.Code)
	}
}

// loadGraphFile reads and decodes a graph document, exiting on failure.
func loadGraphFile(path string) *schema.Graph {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("cannot read %s: %v", path, err)
	}
	g, err := schema.DecodeGraph(data)
	if err != nil {
		fatalf("cannot decode %s: %v", path, err)
	}
	return g
}

// patchFile rewrites a marker block in place, appending the block when the
// file does not contain it yet. A missing file is treated as empty.
func patchFile(path, blockID, code string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	text := string(data)
	out, err := markers.Patch(text, blockID, code)
	if err != nil {
		var cgErr *schema.CodegraphError
		if !errors.As(err, &cgErr) || cgErr.Code != schema.ErrCodeBlockNotFound {
			return err
		}
		out, err = markers.Append(text, blockID, code)
		if err != nil {
			return err
		}
	}

	return os.WriteFile(path, []byte(out), 0o644)
}

// openStore opens (and migrates) the history database. The parent directory
// is created on first use.
func openStore(ctx context.Context, dbPath string) (*store.LibSQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", filepath.Dir(dbPath), err)
	}
	s, err := store.NewLibSQLStore("file:" + dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// recordRun persists the generation outcome. History failures are logged,
// never fatal: the generated code matters more than its audit trail.
func recordRun(ctx context.Context, logger *slog.Logger, cfg Config, g *schema.Graph, language string, result *schema.GenerationResult) {
	s, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		logger.Warn("history database unavailable", slog.String("error", err.Error()))
		return
	}
	defer s.Close()

	run := &store.Run{
		ID:         uuid.New().String(),
		Graph:      g.Name,
		Language:   language,
		Success:    result.Success,
		Nodes:      result.Stats.NodesProcessed,
		Lines:      result.Stats.LinesOfCode,
		DurationMs: result.Stats.GenerationTimeMs,
		CreatedAt:  time.Now().UTC(),
	}
	run.Diagnostics = append(run.Diagnostics, result.Errors...)
	run.Diagnostics = append(run.Diagnostics, result.Warnings...)
	if result.Success {
		run.Checksum = checksum(result.Code)
	}

	if err := s.RecordRun(logging.WithRunID(ctx, run.ID), run); err != nil {
		logger.Warn("failed to record generation run", slog.String("error", err.Error()))
	}
}

// checksum returns the hex SHA-256 of generated code.
func checksum(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
