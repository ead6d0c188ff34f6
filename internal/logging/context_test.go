package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	// Initially empty.
	assert.Equal(t, "", GraphID(ctx))
	assert.Equal(t, "", NodeID(ctx))
	assert.Equal(t, "", RunID(ctx))

	// Set values.
	ctx = WithGraphID(ctx, "demo")
	ctx = WithNodeID(ctx, "n-1")
	ctx = WithRunID(ctx, "run-42")

	// Round-trip.
	assert.Equal(t, "demo", GraphID(ctx))
	assert.Equal(t, "n-1", NodeID(ctx))
	assert.Equal(t, "run-42", RunID(ctx))
}

func TestLogWith(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()
	ctx = WithGraphID(ctx, "demo")
	ctx = WithNodeID(ctx, "n-x")
	ctx = WithRunID(ctx, "run-7")

	enriched := LogWith(ctx, logger)
	enriched.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "graph_id=demo")
	assert.Contains(t, output, "node_id=n-x")
	assert.Contains(t, output, "run_id=run-7")
	assert.Contains(t, output, "test message")
}

func TestLogWithMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Only set graph ID, node and run should not appear.
	ctx := WithGraphID(context.Background(), "only-graph")

	enriched := LogWith(ctx, logger)
	enriched.Info("partial context")

	output := buf.String()
	assert.Contains(t, output, "graph_id=only-graph")
	assert.NotContains(t, output, "node_id")
	assert.NotContains(t, output, "run_id")
}

func TestWithIDs(t *testing.T) {
	ctx := WithIDs(context.Background(), "g-1", "n-2", "r-3")
	assert.Equal(t, "g-1", GraphID(ctx))
	assert.Equal(t, "n-2", NodeID(ctx))
	assert.Equal(t, "r-3", RunID(ctx))
}

func TestCorrelationHandler(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelationHandler(inner))

	ctx := WithIDs(context.Background(), "demo", "n-9", "run-1")
	logger.InfoContext(ctx, "handled")

	output := buf.String()
	assert.Contains(t, output, `"graph_id":"demo"`)
	assert.Contains(t, output, `"node_id":"n-9"`)
	assert.Contains(t, output, `"run_id":"run-1"`)
}

func TestCorrelationHandlerEmptyContext(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelationHandler(inner))

	logger.InfoContext(context.Background(), "plain")

	output := buf.String()
	assert.NotContains(t, output, "graph_id")
	assert.Contains(t, output, "plain")
}
