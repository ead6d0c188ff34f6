package main

import (
	"fmt"
	"os"
)

const usage = `codegraph compiles visual node graphs into source code

Usage:
  codegraph <command> [flags] [args]

Commands:
  generate   compile a graph document into source code
  check      validate a graph document (schema, references, types, cycles)
  blocks     list generated-code marker blocks in a source file
  patch      replace the interior of a marker block
  append     append a new marker block to a source file
  query      evaluate a jq / expr / CEL expression over a graph document
  diagram    render a graph document as a Mermaid, ASCII or PNG diagram
  history    list past generation runs
  sync       run scheduled regenerate-and-patch jobs
  mcp        serve the MCP tool server over stdio
  setup      write settings.json and download optional tools
  update     self-update from GitHub releases
  version    print the version

Run "codegraph <command> -h" for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := loadConfig()
	args := os.Args[2:]

	switch os.Args[1] {
	case "generate":
		runGenerate(cfg, args)
	case "check":
		runCheck(cfg, args)
	case "blocks":
		runBlocks(args)
	case "patch":
		runPatch(args)
	case "append":
		runAppend(args)
	case "query":
		runQuery(args)
	case "diagram":
		runDiagram(args)
	case "history":
		runHistory(cfg, args)
	case "sync":
		runSync(cfg, args)
	case "mcp":
		runMCP(cfg, args)
	case "setup":
		runSetup(cfg, args)
	case "update":
		runUpdate(args)
	case "version":
		printVersion()
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
