package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openkenya/countymap/internal/server"
	"github.com/openkenya/countymap/pkg/config"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string // listen address
	boundaries string // boundary GeoJSON path
	records    string // record dataset path
	noCache    bool   // disable artifact caching
}

// newServeCmd creates the serve command. It loads and places the datasets
// once, then serves the map and its API until interrupted.
func newServeCmd(configPath *string) *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the county map over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.boundaries, "boundaries", "b", "", "boundary GeoJSON file (overrides config)")
	cmd.Flags().StringVarP(&opts.records, "records", "r", "", "record dataset file (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	base := pipelineOptions(cfg)
	if opts.boundaries != "" {
		base.BoundaryPath = opts.boundaries
	}
	if opts.records != "" {
		base.RecordPath = opts.records
	}
	base.Logger = logger

	runner, err := newRunner(ctx, cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv, err := server.New(ctx, runner, base, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, opts.addr)
}
