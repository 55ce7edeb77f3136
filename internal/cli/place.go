package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openkenya/countymap/pkg/config"
	"github.com/openkenya/countymap/pkg/pipeline"
	"github.com/openkenya/countymap/pkg/placement"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	boundaries      string // boundary GeoJSON path
	records         string // record dataset path
	output          string // output file path, "-" or empty for stdout
	seed            uint64 // sampler seed for reproducible placements
	fallback        string // catch-all county for unresolved records ("none" to drop)
	excludeResolved bool   // drop records whose case was later resolved
	refresh         bool   // bypass the placement cache
	noCache         bool   // disable caching entirely
}

// newPlaceCmd creates the place command. It resolves every record to a
// county, scatters it inside the county polygon, and writes the records
// back out with lon/lat attached.
func newPlaceCmd(configPath *string) *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place records inside their county polygons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runPlace(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.boundaries, "boundaries", "b", "", "boundary GeoJSON file (overrides config)")
	cmd.Flags().StringVarP(&opts.records, "records", "r", "", "record dataset file (overrides config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "sampler seed (default from config)")
	cmd.Flags().StringVar(&opts.fallback, "fallback", "", "catch-all county for unresolved records, or 'none' to drop them")
	cmd.Flags().BoolVar(&opts.excludeResolved, "exclude-resolved", false, "drop records whose case status was later resolved")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute placements even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the placement cache")

	return cmd
}

// placedRecord is the output shape: the record plus its geographic
// placement.
type placedRecord struct {
	*placement.Record
	Lon *float64 `json:"lon,omitempty"`
	Lat *float64 `json:"lat,omitempty"`
}

func runPlace(ctx context.Context, cfg config.Config, opts *placeOpts) error {
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
	base.Refresh = opts.refresh
	base.Logger = logger

	runner, err := newRunner(ctx, cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	ds, err := pipeline.Load(ctx, base)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d counties, %d records", ds.Index.Len(), len(ds.Records))

	res, cached, err := runner.PlaceWithCacheInfo(ctx, ds, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d records", res.Placed))

	out := make([]placedRecord, 0, len(ds.Records))
	for _, rec := range ds.Records {
		pr := placedRecord{Record: rec}
		if pt, ok := rec.Placement(); ok {
			lon, lat := pt.X(), pt.Y()
			pr.Lon, pr.Lat = &lon, &lat
		}
		out = append(out, pr)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := writeOutput(opts.output, data); err != nil {
		return err
	}

	printSuccess("Placed %d of %d records", res.Placed, len(ds.Records))
	if cached {
		printDetail("placements restored from cache")
	}
	if res.Dropped > 0 {
		printWarning("Dropped %d records with no resolvable county", res.Dropped)
	}
	for _, line := range countySummary(res.ByCounty, 5) {
		printDetail("%s", line)
	}
	if opts.output != "" && opts.output != "-" {
		printFile(opts.output)
	}
	return nil
}

// countySummary returns the top-n counties by placed count, formatted for
// display.
func countySummary(byCounty map[string]int, n int) []string {
	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(byCounty))
	for k, c := range byCounty {
		entries = append(entries, entry{k, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%-16s %d", e.key, e.count)
	}
	return lines
}
