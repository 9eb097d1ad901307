package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adjudilane/verdict/pkg/domain"
	"github.com/adjudilane/verdict/pkg/precedent"
	"github.com/adjudilane/verdict/pkg/simulate"
)

func runSimulateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("simulate", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var poolPath, draftPath, signalsPath, domainName string
	cmd.StringVar(&poolPath, "pool", "", "Path to precedent pool JSON (REQUIRED)")
	cmd.StringVar(&draftPath, "draft", "", "Path to draft shift JSON (REQUIRED)")
	cmd.StringVar(&signalsPath, "signals", "", "Path to signal definitions JSON (REQUIRED)")
	cmd.StringVar(&domainName, "domain", "banking", "Built-in domain registry: banking or insurance")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if poolPath == "" || draftPath == "" || signalsPath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -pool, -draft, and -signals are required")
		return 2
	}

	var registry = domain.Banking()
	switch domainName {
	case "banking":
	case "insurance":
		registry = domain.Insurance()
	default:
		_, _ = fmt.Fprintf(stderr, "Error: unknown domain %q\n", domainName)
		return 2
	}

	var pool []*precedent.Seed
	if err := readJSON(poolPath, &pool); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	var draft simulate.DraftShift
	if err := readJSON(draftPath, &draft); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	var exprs map[string]string
	if err := readJSON(signalsPath, &exprs); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	signals, err := simulate.NewSignalSet(exprs)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	sim := simulate.NewSimulator(pool, registry, signals)
	report, err := sim.Simulate(draft)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	slog.Info("simulated", "draft", draft.ID, "matched", report.Matched, "magnitude", report.Magnitude)
	if err := printJSON(stdout, report); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
