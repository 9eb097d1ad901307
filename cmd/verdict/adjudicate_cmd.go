package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adjudilane/verdict/pkg/engine"
	"github.com/adjudilane/verdict/pkg/policypack"
)

func runAdjudicateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("adjudicate", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var packPath, factsPath string
	cmd.StringVar(&packPath, "pack", "", "Path to policy pack YAML (REQUIRED)")
	cmd.StringVar(&factsPath, "facts", "", "Path to case facts JSON (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if packPath == "" || factsPath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -pack and -facts are required")
		return 2
	}

	f, err := os.Open(packPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	pack, err := policypack.Load(f, engine.Version)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	facts, err := loadFacts(factsPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	decision, err := engine.Adjudicate(pack, facts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	slog.Info("adjudicated", "decision_id", decision.DecisionID, "verdict", decision.Verdict)
	if err := printJSON(stdout, decision); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
