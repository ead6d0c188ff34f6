package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/multicode/codegraph/internal/validation"
	"github.com/multicode/codegraph/pkg/mcp"
)

// runMCP serves the tool server over stdio until stdin closes or a signal
// arrives. The history store is optional: without it the history tool just
// reports that history is disabled.
func runMCP(cfg Config, args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	noHistory := fs.Bool("no-history", false, "serve without the history database")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	validator, err := validation.NewGraphValidator()
	if err != nil {
		fatalf("%v", err)
	}

	deps := mcp.CodegraphServerDeps{Validator: validator, Logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*noHistory {
		s, err := openStore(ctx, cfg.DBPath)
		if err != nil {
			logger.Warn("history database unavailable, history tool disabled",
				slog.String("error", err.Error()))
		} else {
			defer s.Close()
			deps.Store = s
		}
	}

	server := mcp.NewCodegraphServer(deps)
	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatalf("%v", err)
	}
}
