package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adjudilane/verdict/pkg/chain"
)

func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var chainPath string
	cmd.StringVar(&chainPath, "chain", "", "Path to serialized chain JSON (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if chainPath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -chain is required")
		return 2
	}

	data, err := os.ReadFile(chainPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var ch chain.Chain
	if err := json.Unmarshal(data, &ch); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: chain rejected: %v\n", err)
		return 1
	}

	res := ch.Validate()
	if err := printJSON(stdout, res); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !res.IsValid {
		return 1
	}
	return 0
}
