package schema

import (
	"bytes"
	"encoding/json"
)

// DecodeGraph parses a graph document. Structural validation beyond JSON
// well-formedness lives in internal/validation; this only rejects documents
// that cannot be bound to the model at all.
func DecodeGraph(data []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var g Graph
	if err := dec.Decode(&g); err != nil {
		return nil, NewError(ErrCodeDocument, "graph document is not valid JSON").WithCause(err)
	}
	normalizeNumbers(&g)
	return &g, nil
}

// EncodeGraph serializes a graph document with stable indentation.
func EncodeGraph(g *Graph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, NewError(ErrCodeDocument, "graph document cannot be serialized").WithCause(err)
	}
	return data, nil
}

// normalizeNumbers converts json.Number port values into int64 or float64 so
// generators see concrete Go numerics.
func normalizeNumbers(g *Graph) {
	for _, n := range g.Nodes {
		for i := range n.Inputs {
			n.Inputs[i].DefaultValue = normalizeValue(n.Inputs[i].DefaultValue)
			n.Inputs[i].Value = normalizeValue(n.Inputs[i].Value)
		}
		for i := range n.Outputs {
			n.Outputs[i].DefaultValue = normalizeValue(n.Outputs[i].DefaultValue)
			n.Outputs[i].Value = normalizeValue(n.Outputs[i].Value)
		}
		for k, v := range n.Properties {
			n.Properties[k] = normalizeValue(v)
		}
	}
	for _, v := range g.Variables {
		v.DefaultValue = normalizeValue(v.DefaultValue)
	}
	for _, f := range g.Functions {
		for i := range f.Parameters {
			f.Parameters[i].DefaultValue = normalizeValue(f.Parameters[i].DefaultValue)
		}
		if f.Graph != nil {
			normalizeNumbers(f.Graph)
		}
	}
}

func normalizeValue(v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
