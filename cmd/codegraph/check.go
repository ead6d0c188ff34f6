package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/multicode/codegraph/internal/codegen"
	"github.com/multicode/codegraph/internal/validation"
)

// runCheck validates a graph document: structure, references, port types,
// data cycles, then the compiler's own preflight for the target language.
func runCheck(cfg Config, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	lang := fs.String("lang", cfg.Language, "target language")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fatalf("usage: codegraph check [flags] <graph.json>")
	}

	g := loadGraphFile(fs.Arg(0))

	validator, err := validation.NewGraphValidator()
	if err != nil {
		fatalf("%v", err)
	}
	result := validator.Validate(g)

	failed := false
	for _, issue := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s at %s: %s\n", issue.Code, issue.Path, issue.Message)
		failed = true
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s at %s: %s\n", issue.Code, issue.Path, issue.Message)
	}

	// Preflight only makes sense on a structurally sound document.
	if !failed {
		compiler, err := codegen.For(*lang, codegen.Options{Logger: newLogger(cfg.LogLevel)})
		if err != nil {
			fatalf("%v", err)
		}
		for _, d := range compiler.Preflight(g) {
			fmt.Fprintf(os.Stderr, "error: %s: %s\n", d.Code, d.Message)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("ok")
}
