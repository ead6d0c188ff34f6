package packages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multicode/codegraph/pkg/schema"
)

const manifestJSON = `{
	"name": "vision",
	"version": "0.3.0",
	"nodes": [
		{
			"type": "vision.capture",
			"label": "Capture Frame",
			"templates": {"cpp": "capture({{input.device}});"},
			"includes": {"cpp": ["<opencv2/opencv.hpp>"]}
		},
		{
			"type": "vision.show",
			"templates": {"cpp": "show();"}
		}
	]
}`

func TestDecodeManifest(t *testing.T) {
	m, err := DecodeManifest([]byte(manifestJSON))
	require.NoError(t, err)

	assert.Equal(t, "vision", m.Name)
	assert.Equal(t, "0.3.0", m.Version)
	require.Len(t, m.Nodes, 2)
	assert.Equal(t, "vision.capture", m.Nodes[0].Type)
	assert.Equal(t, "Capture Frame", m.Nodes[0].Label)
}

func TestDecodeManifest_InvalidJSON(t *testing.T) {
	_, err := DecodeManifest([]byte("{not json"))
	require.Error(t, err)

	var cgErr *schema.CodegraphError
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, schema.ErrCodeDocument, cgErr.Code)
}

func TestNodeDefinition_Template(t *testing.T) {
	m, err := DecodeManifest([]byte(manifestJSON))
	require.NoError(t, err)

	def := m.Nodes[0]
	tpl, ok := def.Template("cpp")
	assert.True(t, ok)
	assert.Equal(t, "capture({{input.device}});", tpl)

	_, ok = def.Template("rust")
	assert.False(t, ok)

	assert.Equal(t, []string{"<opencv2/opencv.hpp>"}, def.IncludesFor("cpp"))
	assert.Nil(t, def.IncludesFor("rust"))
}

func TestLookupFromManifests(t *testing.T) {
	m1 := &Manifest{Name: "a", Nodes: []NodeDefinition{
		{Type: "x.one", Label: "first"},
		{Type: "x.two"},
	}}
	m2 := &Manifest{Name: "b", Nodes: []NodeDefinition{
		{Type: "x.one", Label: "override"},
	}}

	lookup, tags := LookupFromManifests(m1, m2)

	assert.ElementsMatch(t, []string{"x.one", "x.two"}, tags, "duplicate types are declared once")

	def, ok := lookup("x.one")
	require.True(t, ok)
	assert.Equal(t, "override", def.Label, "the last manifest wins")

	_, ok = lookup("x.missing")
	assert.False(t, ok)
}
