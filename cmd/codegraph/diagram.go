package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/multicode/codegraph/internal/diagram"
)

// runDiagram renders a graph document as a diagram: Mermaid (default), ASCII
// or PNG. ASCII prefers the mermaid-ascii binary from ~/.codegraph/bin when
// installed, falling back to the built-in box renderer.
func runDiagram(args []string) {
	fs := flag.NewFlagSet("diagram", flag.ExitOnError)
	format := fs.String("format", "mermaid", "output format: mermaid, ascii, png")
	out := fs.String("o", "", "output file (default: stdout; required for png)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fatalf("usage: codegraph diagram [flags] <graph.json>")
	}

	g := loadGraphFile(fs.Arg(0))
	model, err := diagram.Build(g)
	if err != nil {
		fatalf("%v", err)
	}

	switch *format {
	case "mermaid":
		writeDiagram(*out, []byte(diagram.RenderMermaid(model)))
	case "ascii":
		writeDiagram(*out, []byte(diagram.RenderASCIIAuto(model, filepath.Join(codegraphDir(), "bin"))))
	case "png":
		if *out == "" {
			fatalf("-o is required for png output")
		}
		png, err := diagram.RenderImage(model)
		if err != nil {
			fatalf("%v", err)
		}
		writeDiagram(*out, png)
	default:
		fatalf("unknown format %q (expected mermaid, ascii or png)", *format)
	}
}

func writeDiagram(path string, data []byte) {
	if path == "" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatalf("cannot write %s: %v", path, err)
	}
}
