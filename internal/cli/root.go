// Package cli implements the countymap command-line interface.
//
// This package provides commands for fetching the input datasets, placing
// record datasets onto county polygons, rendering the result as SVG or
// JSON, serving the map over HTTP, exploring it in a terminal viewer, and
// enriching raw CSV exports into the record JSON schema. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - fetch: Download the boundary and record datasets
//   - place: Resolve records to counties and scatter them inside polygons
//   - render: Generate SVG or JSON map artifacts
//   - serve: Serve the map and its API over HTTP
//   - view: Explore the map interactively in the terminal
//   - enrich: Convert a raw CSV export into the record JSON schema
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
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

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the countymap CLI and returns an error if any command
// fails. This is the main entry point for the CLI application. The
// context carries cancellation from signal handling in main; long
// commands like serve shut down when it is canceled.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the command context and accessible to all
// commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          "countymap",
		Short:        "countymap plots record datasets onto Kenya's counties",
		Long:         `countymap resolves each record in a dataset to a county, scatters it to a random point strictly inside that county's polygon, and renders the result as a zoomable choropleth map.`,
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

	root.SetVersionTemplate(fmt.Sprintf("countymap %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a countymap.toml config file")

	root.AddCommand(newFetchCmd(&configPath))
	root.AddCommand(newPlaceCmd(&configPath))
	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newViewCmd(&configPath))
	root.AddCommand(newEnrichCmd())
	root.AddCommand(newCacheCmd(&configPath))

	return root.ExecuteContext(ctx)
}
