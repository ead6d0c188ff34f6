package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/multicode/codegraph/internal/markers"
)

// runBlocks lists the marker blocks in a source file.
func runBlocks(args []string) {
	fs := flag.NewFlagSet("blocks", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fatalf("usage: codegraph blocks [flags] <file>")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("cannot read %s: %v", path, err)
	}

	blocks, err := markers.Parse(string(data))
	if err != nil {
		fatalf("%v", err)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(blocks, "", "  ")
		fmt.Println(string(out))
		return
	}
	for _, b := range blocks {
		fmt.Printf("%-24s lines %d-%d  %s\n", b.ID, b.BeginLine, b.EndLine, b.Preview)
	}
}

// runPatch replaces the interior of a marker block, in place by default.
func runPatch(args []string) {
	fs := flag.NewFlagSet("patch", flag.ExitOnError)
	codePath := fs.String("c", "", "file holding the new block interior (default: stdin)")
	toStdout := fs.Bool("stdout", false, "print the patched file instead of rewriting it")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fatalf("usage: codegraph patch [flags] <file> <block-id>")
	}

	path, blockID := fs.Arg(0), fs.Arg(1)
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("cannot read %s: %v", path, err)
	}

	out, err := markers.Patch(string(data), blockID, readCode(*codePath))
	if err != nil {
		fatalf("%v", err)
	}
	writeBack(path, out, *toStdout)
}

// runAppend adds a new marker block to the end of a source file.
func runAppend(args []string) {
	fs := flag.NewFlagSet("append", flag.ExitOnError)
	codePath := fs.String("c", "", "file holding the block interior (default: stdin)")
	toStdout := fs.Bool("stdout", false, "print the result instead of rewriting the file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fatalf("usage: codegraph append [flags] <file> <block-id>")
	}

	path, blockID := fs.Arg(0), fs.Arg(1)
	// A missing target is fine: the block becomes the whole file.
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		fatalf("cannot read %s: %v", path, err)
	}

	out, err := markers.Append(string(data), blockID, readCode(*codePath))
	if err != nil {
		fatalf("%v", err)
	}
	writeBack(path, out, *toStdout)
}

func readCode(path string) string {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("cannot read stdin: %v", err)
		}
		return string(data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("cannot read %s: %v", path, err)
	}
	return string(data)
}

func writeBack(path, content string, toStdout bool) {
	if toStdout {
		fmt.Print(content)
		return
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fatalf("cannot write %s: %v", path, err)
	}
}
