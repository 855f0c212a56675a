// Package main provides the strategy graph compiler CLI application
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bigking1998/algo-trade-bot-sub010/pkg/strategygraph"
	"github.com/bigking1998/algo-trade-bot-sub010/pkg/validation"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run implements the CLI so tests can exercise it without spawning a
// process. Exit codes: 0 success, 1 usage or read failure, 2 the graph
// failed validation or compilation.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(stdout, "strategygraph %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return 0
	}

	fs := flag.NewFlagSet("strategygraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		validateOnly = fs.Bool("validate", false, "validate without generating code")
		level        = fs.String("opt", "basic", "optimization level: none, basic, aggressive")
		input        = fs.String("f", "-", "graph JSON file, or - for stdin")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: strategygraph [version] [-validate] [-opt level] [-f graph.json]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := readGraph(*input, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "strategygraph: %v\n", err)
		return 1
	}

	compiler := strategygraph.New()
	graph := cfg.ToGraph()

	if *validateOnly {
		report := compiler.Validate(graph)
		printJSON(stdout, report)
		if !report.IsValid {
			return 2
		}
		return 0
	}

	report, result := compiler.ValidateAndCompile(context.Background(), graph, strategygraph.OptimizationLevel(*level))
	printJSON(stdout, struct {
		Report *strategygraph.ValidationReport  `json:"report"`
		Result *strategygraph.CompilationResult `json:"result,omitempty"`
	}{report, result})
	if result == nil || !result.Success {
		return 2
	}
	return 0
}

func readGraph(path string, stdin io.Reader) (*validation.GraphConfig, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	var cfg validation.GraphConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid graph payload: %w", err)
	}
	return &cfg, nil
}

func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
