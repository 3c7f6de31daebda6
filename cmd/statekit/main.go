package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	skerrors "github.com/vango-dev/statekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errDirty makes `diff --exit-code` exit 1 without printing an error.
var errDirty = errors.New("documents differ")

func main() {
	rootCmd := &cobra.Command{
		Use:   "statekit",
		Short: "Inspect and reset reactive JSON documents",
		Long: `statekit serves a JSON document whose edits can be compared
against, and reset to, the state it started from.

  • Dirty tracking against a deep-copied baseline
  • Reset and resync over HTTP
  • Live updates via WebSocket
  • Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		diffCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDirty) {
			skerrors.PrintError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
