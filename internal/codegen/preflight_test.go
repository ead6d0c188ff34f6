package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/pkg/schema"
)

func TestPreflight_NoStartNode(t *testing.T) {
	g := &schema.Graph{Nodes: []*schema.Node{printNode("p1", "hi")}}

	diags := Preflight(g, NewDefaultRegistry())
	require.Len(t, diags, 1)
	assert.Equal(t, schema.CodeNoStartNode, diags[0].Code)
}

func TestPreflight_MultipleStartNodes(t *testing.T) {
	g := &schema.Graph{Nodes: []*schema.Node{startNode("n1"), startNode("n2")}}

	diags := Preflight(g, NewDefaultRegistry())
	require.Len(t, diags, 1)
	assert.Equal(t, schema.CodeMultipleStartNodes, diags[0].Code)
	assert.Equal(t, "n2", diags[0].NodeID, "the second entry node is the offender")
}

func TestPreflight_UnknownNodeType(t *testing.T) {
	g := &schema.Graph{
		Nodes: []*schema.Node{startNode("n1"), {ID: "x1", Type: "vendor.mystery"}},
	}

	diags := Preflight(g, NewDefaultRegistry())
	require.Len(t, diags, 1)
	assert.Equal(t, schema.CodeUnknownNodeType, diags[0].Code)
	assert.Equal(t, "x1", diags[0].NodeID)
	assert.Contains(t, diags[0].Message, "vendor.mystery")
}

func TestPreflight_ChecksFunctionSubGraphs(t *testing.T) {
	g := &schema.Graph{
		Nodes: []*schema.Node{startNode("n1")},
		Functions: []*schema.Function{{
			ID: "fn1", Name: "helper",
			Graph: &schema.Graph{Nodes: []*schema.Node{{ID: "fx", Type: "vendor.mystery"}}},
		}},
	}

	diags := Preflight(g, NewDefaultRegistry())
	require.Len(t, diags, 1)
	assert.Equal(t, schema.CodeUnknownNodeType, diags[0].Code)
	assert.Equal(t, "fx", diags[0].NodeID)
}

func TestPreflight_CleanGraph(t *testing.T) {
	g := &schema.Graph{
		Nodes: []*schema.Node{startNode("n1"), printNode("p1", "hi")},
		Edges: []*schema.Edge{execEdge("n1", "n1:exec", "p1")},
	}

	assert.Empty(t, Preflight(g, NewDefaultRegistry()))
}

func TestCanGenerate(t *testing.T) {
	reg := NewDefaultRegistry()

	ok, diags := CanGenerate(&schema.Graph{Nodes: []*schema.Node{startNode("n1")}}, reg)
	assert.True(t, ok)
	assert.Empty(t, diags)

	ok, diags = CanGenerate(&schema.Graph{}, reg)
	assert.False(t, ok)
	assert.NotEmpty(t, diags)
}
