package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openkenya/countymap/pkg/config"
	"github.com/openkenya/countymap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	boundaries string   // boundary GeoJSON path
	records    string   // record dataset path
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "json"
	year       string   // year filter ("all" or a four-digit year)
	county     string   // county filter
	focus      string   // county to fit the projection to
	width      float64  // canvas width in pixels
	height     float64  // canvas height in pixels
	seed       uint64   // sampler seed
	density    float64  // blue-noise fill spacing in degrees (0 = markers)
	tooltips   bool     // embed <title> tooltips per marker
	refresh    bool     // bypass caches
	noCache    bool     // disable caching entirely
}

// newRenderCmd creates the render command for generating map artifacts.
//
// Default settings:
//   - format: svg
//   - width: 800px, height: 600px
//   - year/county: all records
func newRenderCmd(configPath *string) *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:    pipeline.DefaultWidth,
		height:   pipeline.DefaultHeight,
		tooltips: true,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the placed record map to SVG or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.boundaries, "boundaries", "b", "", "boundary GeoJSON file (overrides config)")
	cmd.Flags().StringVarP(&opts.records, "records", "r", "", "record dataset file (overrides config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&opts.year, "year", "", "only render records from this year ('all' for every year)")
	cmd.Flags().StringVar(&opts.county, "county", "", "only render records from this county")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "fit the projection to this county")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "sampler seed (default from config)")
	cmd.Flags().Float64Var(&opts.density, "density", 0, "render blue-noise density fill with this spacing in degrees")
	cmd.Flags().BoolVar(&opts.tooltips, "tooltips", opts.tooltips, "embed hover tooltips per marker")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path for multi-format output.
// If output is empty, "map" is used. A known format extension on output
// is stripped.
func basePath(output string) string {
	if output == "" {
		return "map"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func runRender(ctx context.Context, cfg config.Config, opts *renderOpts) error {
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
	base.Formats = opts.formats
	base.Year = opts.year
	base.County = opts.county
	base.Focus = opts.focus
	base.Width = opts.width
	base.Height = opts.height
	base.Density = opts.density
	base.Tooltips = opts.tooltips
	base.Refresh = opts.refresh
	base.Logger = logger

	runner, err := newRunner(ctx, cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	if len(opts.formats) == 1 {
		format := opts.formats[0]
		path := opts.output
		if path == "" {
			path = basePath("") + "." + format
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printSuccess("Rendered %s", path)
		return nil
	}

	baseOut := basePath(opts.output)
	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", baseOut, format)
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printSuccess("Rendered %d formats", len(opts.formats))
	return nil
}
