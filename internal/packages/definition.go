// Package packages models third-party node definitions: code templates and
// required includes supplied by installed node packages. How packages are
// discovered, downloaded and verified is the host application's concern; the
// compiler only consumes a lookup function plus a list of extra type tags.
package packages

import (
	"encoding/json"

	"github.com/multicode/codegraph/pkg/schema"
)

// NodeDefinition describes one third-party node type.
type NodeDefinition struct {
	Type      string              `json:"type"`
	Label     string              `json:"label,omitempty"`
	Templates map[string]string   `json:"templates"`          // target language -> code template
	Includes  map[string][]string `json:"includes,omitempty"` // target language -> required includes
}

// Template returns the code template for a target language.
func (d *NodeDefinition) Template(language string) (string, bool) {
	t, ok := d.Templates[language]
	return t, ok
}

// IncludesFor returns the includes required for a target language.
func (d *NodeDefinition) IncludesFor(language string) []string {
	return d.Includes[language]
}

// LookupFunc resolves a node type tag to its package-supplied definition.
type LookupFunc func(typeTag string) (*NodeDefinition, bool)

// Manifest is the on-disk shape of a node package definition file: one
// package contributing one or more node definitions.
type Manifest struct {
	Name    string           `json:"name"`
	Version string           `json:"version,omitempty"`
	Nodes   []NodeDefinition `json:"nodes"`
}

// DecodeManifest parses a package definition document.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, schema.NewError(schema.ErrCodeDocument, "package manifest is not valid JSON").WithCause(err)
	}
	return &m, nil
}

// LookupFromManifests builds a LookupFunc over a set of decoded manifests and
// returns it together with the declared type tags, ready to hand to
// codegen.NewPackageRegistry.
func LookupFromManifests(manifests ...*Manifest) (LookupFunc, []string) {
	byType := make(map[string]*NodeDefinition)
	var tags []string
	for _, m := range manifests {
		for i := range m.Nodes {
			def := &m.Nodes[i]
			if _, exists := byType[def.Type]; !exists {
				tags = append(tags, def.Type)
			}
			byType[def.Type] = def // last manifest wins
		}
	}
	lookup := func(typeTag string) (*NodeDefinition, bool) {
		def, ok := byType[typeTag]
		return def, ok
	}
	return lookup, tags
}
