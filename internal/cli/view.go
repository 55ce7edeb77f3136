package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/openkenya/countymap/pkg/config"
	"github.com/openkenya/countymap/pkg/pipeline"
	"github.com/openkenya/countymap/pkg/placement"
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	boundaries      string
	records         string
	seed            uint64
	fallback        string
	excludeResolved bool
	year            string
	county          string
	noCache         bool
}

// newViewCmd creates the view command, an interactive terminal map.
// Counties render as braille outlines and placed records as dots; the
// keyboard pans, zooms, and cycles the focused county.
func newViewCmd(configPath *string) *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the map interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.boundaries, "boundaries", "b", "", "boundary GeoJSON file (overrides config)")
	cmd.Flags().StringVarP(&opts.records, "records", "r", "", "record dataset file (overrides config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "sampler seed (default from config)")
	cmd.Flags().StringVar(&opts.fallback, "fallback", "", "catch-all county for unresolved records, or 'none' to drop them")
	cmd.Flags().BoolVar(&opts.excludeResolved, "exclude-resolved", false, "drop records whose case status was later resolved")
	cmd.Flags().StringVar(&opts.year, "year", "", "show only records from this year")
	cmd.Flags().StringVar(&opts.county, "county", "", "show only records from this county")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the placement cache")

	return cmd
}

func runView(ctx context.Context, cfg config.Config, opts *viewOpts) error {
	logger := loggerFromContext(ctx)

	base := pipelineOptions(cfg)
	if opts.boundaries != "" {
		base.BoundaryPath = opts.boundaries
	}
	if opts.records != "" {
		base.RecordPath = opts.records
	}
	if opts.seed != 0 {
		base.Seed = opts.seed
	}
	if opts.fallback != "" {
		base.Fallback = opts.fallback
	}
	if opts.excludeResolved {
		base.ExcludeResolved = true
	}
	base.Logger = logger

	runner, err := newRunner(ctx, cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	ds, err := pipeline.Load(ctx, base)
	if err != nil {
		return err
	}
	if _, _, err := runner.PlaceWithCacheInfo(ctx, ds, base); err != nil {
		return err
	}

	records := ds.Records
	year, yearAll := placement.ParseYearFilter(opts.year)
	if !yearAll || opts.county != "" {
		records = placement.Filter(records, year, yearAll, opts.county)
	}

	program := tea.NewProgram(newMapModel(ds.Index, records), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
