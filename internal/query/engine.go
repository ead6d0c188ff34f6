// Package query evaluates read-only expressions over graph documents and
// generation history rows. Three engines: jq (document transforms), CEL
// (condition-style filters), Expr (history filters with array helpers).
package query

import "context"

// Engine evaluates one expression language against a data scope.
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}
