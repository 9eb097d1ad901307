package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/engine"
	"github.com/adjudilane/verdict/pkg/policypack"
)

func runPackhashCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("packhash", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var packPath string
	cmd.StringVar(&packPath, "pack", "", "Path to policy pack YAML (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if packPath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -pack is required")
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

	hash, err := policypack.Hash(pack)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, canonical.Prefix(hash))
	return 0
}
