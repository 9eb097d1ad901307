// Command verdict is the operator CLI: adjudicate a case against a
// policy pack, simulate a draft policy shift, verify a serialized chain,
// or print a pack's provenance hash.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adjudilane/verdict/pkg/canonical"
	"github.com/adjudilane/verdict/pkg/config"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint, split out for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "adjudicate":
		return runAdjudicateCmd(args[2:], stdout, stderr)
	case "simulate":
		return runSimulateCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "packhash":
		return runPackhashCmd(args[2:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, `usage: verdict <command> [flags]

commands:
  adjudicate  -pack pack.yaml -facts facts.json     decide a case
  simulate    -pool pool.json -draft draft.json     run a draft policy shift
              -signals signals.json [-domain banking|insurance]
  verify      -chain chain.json                      validate a serialized chain
  packhash    -pack pack.yaml                        print a pack's hash`)
}

// loadFacts reads a flat JSON object of case facts.
func loadFacts(path string) (map[string]canonical.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	facts := make(map[string]canonical.Value, len(raw))
	for k, v := range raw {
		val, err := canonical.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("fact %s: %w", k, err)
		}
		facts[k] = val
	}
	return facts, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
