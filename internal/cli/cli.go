// Package cli implements the uncouple command-line interface.
//
// This package provides commands for removing coupling junctions from model
// files, inspecting model connectivity, rendering connectivity diagrams, and
// serving the HTTP API. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - process: Remove couplings from a model and reconnect the segments
//   - inspect: Show model statistics and removable couplings
//   - visualize: Render the model's connectivity as DOT, SVG, or PNG
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Called by
// the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the uncouple CLI and returns an error if any command fails.
// ctx carries cancellation from signal handling in main.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "uncouple",
		Short:        "Uncouple removes coupling fittings and reconnects pipe segments",
		Long:         `Uncouple removes coupling junctions joining two linear segments from a building model and restores connectivity, merging segments where possible and falling back to extensions, logical links, or bridge segments.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("uncouple %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVisualizeCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
