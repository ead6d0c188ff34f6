package query

import (
	"encoding/json"

	"github.com/multicode/codegraph/pkg/schema"
)

// GraphScope converts a graph into the data map the engines evaluate against.
// The document is round-tripped through JSON so every engine sees plain
// maps, slices and primitives instead of struct types:
//
//	graph:     the full document
//	nodes:     graph.nodes
//	edges:     graph.edges
//	variables: graph.variables
//	functions: graph.functions
func GraphScope(g *schema.Graph) (map[string]any, error) {
	if g == nil {
		return nil, schema.NewError(schema.ErrCodeQuery, "graph is nil")
	}

	doc, err := toPlainMap(g)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeQuery, "failed to serialize graph").WithCause(err)
	}

	return map[string]any{
		"graph":     doc,
		"nodes":     listOrEmpty(doc["nodes"]),
		"edges":     listOrEmpty(doc["edges"]),
		"variables": listOrEmpty(doc["variables"]),
		"functions": listOrEmpty(doc["functions"]),
	}, nil
}

// RunScope converts a generation history row into an engine scope with the
// row under the "run" key. The value is round-tripped through JSON, so any
// struct with JSON tags works.
func RunScope(run any) (map[string]any, error) {
	doc, err := toPlainMap(run)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeQuery, "failed to serialize run").WithCause(err)
	}
	scope := map[string]any{"run": doc}
	// History filters read row fields as top-level variables too.
	for k, v := range doc {
		scope[k] = v
	}
	return scope, nil
}

func toPlainMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func listOrEmpty(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{}
}
