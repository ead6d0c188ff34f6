// Package schema defines the wire-level graph model consumed by the compiler
// and the diagnostics taxonomy surfaced through generation results.
package schema

// DataType enumerates the port data types understood by the compiler.
type DataType string

const (
	TypeExecution DataType = "execution" // control flow, not data
	TypeBool      DataType = "boolean"
	TypeInt       DataType = "integer"
	TypeFloat     DataType = "float"
	TypeString    DataType = "string"
	TypeAny       DataType = "any"
	TypeAuto      DataType = "auto"
	TypeVoid      DataType = "void"
)

// PortDirection marks a port as an input or an output of its node.
type PortDirection string

const (
	DirectionInput  PortDirection = "input"
	DirectionOutput PortDirection = "output"
)

// EdgeKind distinguishes control-flow links from data-flow links.
type EdgeKind string

const (
	EdgeExecution EdgeKind = "execution"
	EdgeData      EdgeKind = "data"
)

// Port is a typed connection endpoint on a node.
type Port struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	DataType     DataType      `json:"dataType"`
	Direction    PortDirection `json:"direction"`
	DefaultValue any           `json:"defaultValue,omitempty"`
	Value        any           `json:"value,omitempty"` // user-set literal on an unconnected input
}

// Node is a single element of the visual program graph. Identity is ID;
// uniqueness across a graph is assumed, not re-validated.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label,omitempty"`
	X          float64        `json:"x,omitempty"` // cosmetic, ignored by the compiler
	Y          float64        `json:"y,omitempty"` // cosmetic, ignored by the compiler
	Inputs     []Port         `json:"inputs,omitempty"`
	Outputs    []Port         `json:"outputs,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Comment    string         `json:"comment,omitempty"`
}

// Input returns the input port whose ID ends with the given suffix, or the
// one whose name matches. Suffix matching lets authoring tools namespace port
// IDs per node ("node-3:condition") while generators ask for "condition".
func (n *Node) Input(suffix string) *Port {
	return findPort(n.Inputs, suffix)
}

// Output returns the output port matching the given ID suffix or name.
func (n *Node) Output(suffix string) *Port {
	return findPort(n.Outputs, suffix)
}

func findPort(ports []Port, suffix string) *Port {
	for i := range ports {
		if ports[i].ID == suffix || ports[i].Name == suffix || hasIDSuffix(ports[i].ID, suffix) {
			return &ports[i]
		}
	}
	return nil
}

func hasIDSuffix(id, suffix string) bool {
	if len(id) <= len(suffix) {
		return false
	}
	tail := id[len(id)-len(suffix):]
	sep := id[len(id)-len(suffix)-1]
	return tail == suffix && (sep == ':' || sep == '.' || sep == '/')
}

// Edge is a directed link between two ports. Execution edges form the
// control-flow skeleton; data edges feed expressions into input ports.
type Edge struct {
	ID         string   `json:"id"`
	SourceNode string   `json:"sourceNode"`
	SourcePort string   `json:"sourcePort"`
	TargetNode string   `json:"targetNode"`
	TargetPort string   `json:"targetPort"`
	Kind       EdgeKind `json:"kind"`
	DataType   DataType `json:"dataType,omitempty"`
}

// Variable is a graph-scoped logical variable declared in the authoring UI.
// Set/Get nodes reference variables by stable ID, never by display name.
type Variable struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	DataType     DataType `json:"dataType"`
	DefaultValue any      `json:"defaultValue,omitempty"`
}

// Parameter is a named input or output of a user-defined function.
type Parameter struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	DataType     DataType      `json:"dataType"`
	Direction    PortDirection `json:"direction"`
	DefaultValue any           `json:"defaultValue,omitempty"`
}

// Function is a user-defined sub-graph with its own entry node and a return
// node whose input ports mirror the function's output parameters.
type Function struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Graph       *Graph      `json:"graph"`
}

// Inputs returns the function's input parameters in declaration order.
func (f *Function) Inputs() []Parameter {
	return f.paramsByDirection(DirectionInput)
}

// Outputs returns the function's output parameters in declaration order.
func (f *Function) Outputs() []Parameter {
	return f.paramsByDirection(DirectionOutput)
}

func (f *Function) paramsByDirection(dir PortDirection) []Parameter {
	var out []Parameter
	for _, p := range f.Parameters {
		if p.Direction == dir {
			out = append(out, p)
		}
	}
	return out
}

// Graph is a complete visual program: nodes, edges, graph variables and
// user-defined functions.
type Graph struct {
	Name      string      `json:"name,omitempty"`
	Nodes     []*Node     `json:"nodes"`
	Edges     []*Edge     `json:"edges"`
	Variables []*Variable `json:"variables,omitempty"`
	Functions []*Function `json:"functions,omitempty"`
}

// NodeByID returns the node with the given ID, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// VariableByID returns the graph variable with the given stable ID, or nil.
func (g *Graph) VariableByID(id string) *Variable {
	for _, v := range g.Variables {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// FunctionByID returns the user-defined function with the given ID, or nil.
func (g *Graph) FunctionByID(id string) *Function {
	for _, f := range g.Functions {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// DataEdgeInto returns the data edge terminating at the given input port of
// the given node, or nil when the port is unconnected.
func (g *Graph) DataEdgeInto(nodeID, portID string) *Edge {
	for _, e := range g.Edges {
		if e.Kind == EdgeData && e.TargetNode == nodeID && e.TargetPort == portID {
			return e
		}
	}
	return nil
}

// ExecEdgeFrom returns the execution edge leaving the given output port of
// the given node, or nil when the port is unconnected.
func (g *Graph) ExecEdgeFrom(nodeID, portID string) *Edge {
	for _, e := range g.Edges {
		if e.Kind == EdgeExecution && e.SourceNode == nodeID && e.SourcePort == portID {
			return e
		}
	}
	return nil
}
