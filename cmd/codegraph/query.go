package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/multicode/codegraph/internal/query"
)

// runQuery evaluates an expression over a graph document. The default engine
// is jq; expr and CEL cover the condition-style use cases.
func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	expression := fs.String("e", ".", "expression to evaluate")
	engineName := fs.String("engine", "jq", "expression engine: jq, expr, cel")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fatalf("usage: codegraph query -e <expression> [flags] <graph.json>")
	}

	g := loadGraphFile(fs.Arg(0))
	scope, err := query.GraphScope(g)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()

	// jq can produce multiple outputs; print each on its own line, jq-style.
	if *engineName == "jq" {
		results, err := query.NewGoJQEngine().EvaluateAll(ctx, *expression, scope)
		if err != nil {
			fatalf("%v", err)
		}
		for _, r := range results {
			printJSON(r)
		}
		return
	}

	engine, err := engineByName(*engineName)
	if err != nil {
		fatalf("%v", err)
	}
	result, err := engine.Evaluate(ctx, *expression, scope)
	if err != nil {
		fatalf("%v", err)
	}
	printJSON(result)
}

func engineByName(name string) (query.Engine, error) {
	switch name {
	case "jq":
		return query.NewGoJQEngine(), nil
	case "expr":
		return query.NewExprEngine(), nil
	case "cel":
		return query.NewCELEngine()
	default:
		return nil, fmt.Errorf("unknown engine %q (expected jq, expr or cel)", name)
	}
}

func printJSON(v any) {
	out, err := json.Marshal(v)
	if err != nil {
		fatalf("cannot encode result: %v", err)
	}
	fmt.Println(string(out))
}
