package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/multicode/codegraph/internal/query"
	"github.com/multicode/codegraph/internal/store"
)

// runHistory lists past generation runs, newest first. --where applies an
// expression over each row after the SQL filter.
func runHistory(cfg Config, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	graph := fs.String("graph", "", "filter by graph name")
	lang := fs.String("lang", "", "filter by target language")
	failed := fs.Bool("failed", false, "only failed runs")
	since := fs.String("since", "", "only runs after this RFC3339 timestamp")
	limit := fs.Int("limit", 50, "maximum rows")
	where := fs.String("where", "", "row filter expression, e.g. 'success && nodes > 10'")
	engineName := fs.String("engine", "expr", "engine for -where: expr or cel")
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	prune := fs.String("prune", "", "delete runs older than this RFC3339 timestamp and exit")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx := context.Background()
	s, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		fatalf("cannot open history database: %v", err)
	}
	defer s.Close()

	if *prune != "" {
		if _, err := time.Parse(time.RFC3339, *prune); err != nil {
			fatalf("invalid -prune timestamp: %v", err)
		}
		n, err := s.DeleteRunsBefore(ctx, *prune)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Deleted %d runs\n", n)
		return
	}

	filter := store.RunFilter{Graph: *graph, Language: *lang, Limit: *limit}
	if *failed {
		f := false
		filter.Success = &f
	}
	if *since != "" {
		t, err := time.Parse(time.RFC3339, *since)
		if err != nil {
			fatalf("invalid -since timestamp: %v", err)
		}
		filter.Since = &t
	}

	runs, err := s.ListRuns(ctx, filter)
	if err != nil {
		fatalf("%v", err)
	}

	if *where != "" {
		runs, err = filterRuns(ctx, runs, *where, *engineName)
		if err != nil {
			fatalf("%v", err)
		}
	}

	if *asJSON {
		out, _ := json.MarshalIndent(runs, "", "  ")
		fmt.Println(string(out))
		return
	}
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Printf("%s  %-20s %-6s %-6s %4d nodes %5d lines %5dms  %s\n",
			r.CreatedAt.Format(time.RFC3339), r.Graph, r.Language, status,
			r.Nodes, r.Lines, r.DurationMs, shortChecksum(r.Checksum))
	}
}

// filterRuns keeps the rows for which the expression evaluates truthy.
func filterRuns(ctx context.Context, runs []*store.Run, where, engineName string) ([]*store.Run, error) {
	var engine query.Engine
	switch engineName {
	case "expr":
		engine = query.NewExprEngine()
	case "cel":
		e, err := query.NewCELEngine()
		if err != nil {
			return nil, err
		}
		engine = e
	default:
		return nil, fmt.Errorf("unknown engine %q for -where (expected expr or cel)", engineName)
	}

	kept := make([]*store.Run, 0, len(runs))
	for _, r := range runs {
		scope, err := query.RunScope(r)
		if err != nil {
			return nil, err
		}
		v, err := engine.Evaluate(ctx, where, scope)
		if err != nil {
			return nil, err
		}
		if b, ok := v.(bool); ok && b {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
