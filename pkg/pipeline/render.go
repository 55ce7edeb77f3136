package pipeline

import (
	"fmt"

	"github.com/openkenya/countymap/pkg/errors"
	"github.com/openkenya/countymap/pkg/placement"
	"github.com/openkenya/countymap/pkg/project"
	"github.com/openkenya/countymap/pkg/render/mapsvg"
)

// Render produces the requested output formats from placed datasets.
func Render(ds *Datasets, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	proj := project.FitCollection(ds.Index.Bound(), opts.Width, opts.Height, opts.Margin)
	if opts.Focus != "" {
		region, ok := ds.Index.Lookup(opts.Focus)
		if !ok {
			return nil, errors.New(errors.ErrCodeRegionNotFound, "unknown county %q", opts.Focus)
		}
		proj = project.FitRegion(region, opts.Width, opts.Height, project.DefaultFocusFraction)
	}

	year, yearAll := placement.ParseYearFilter(opts.Year)
	visible := placement.Filter(ds.Records, year, yearAll, opts.County)

	m := mapsvg.Map{
		Index:      ds.Index,
		Records:    visible,
		Projection: proj,
	}

	svgOpts := []mapsvg.Option{mapsvg.WithTheme(opts.Theme)}
	if opts.Focus != "" {
		svgOpts = append(svgOpts, mapsvg.WithFocus(opts.Focus))
	}
	if opts.Tooltips {
		svgOpts = append(svgOpts, mapsvg.WithTooltips())
	}
	if opts.Density > 0 {
		svgOpts = append(svgOpts, mapsvg.WithDensity(opts.Density))
	}
	if opts.MarkerRadius > 0 {
		svgOpts = append(svgOpts, mapsvg.WithMarkerRadius(opts.MarkerRadius, 1, 6))
	}
	if opts.StrokeWidth > 0 {
		svgOpts = append(svgOpts, mapsvg.WithStroke(opts.StrokeWidth, 0.2, opts.StrokeWidth))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = mapsvg.RenderSVG(m, svgOpts...)
		case FormatJSON:
			data, err := mapsvg.RenderJSON(m)
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		}
	}
	return artifacts, nil
}
