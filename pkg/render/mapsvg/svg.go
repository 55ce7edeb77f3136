// Package mapsvg renders the county map and its placed records as SVG.
//
// The renderer is a pure consumer of the core engine: it reads regions
// from the index, pixel positions from the projection, and scale-dependent
// stroke/radius values from the viewport transform. It never mutates any
// of them.
package mapsvg

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/placement"
	"github.com/openkenya/countymap/pkg/project"
	"github.com/openkenya/countymap/pkg/viewport"
)

// Theme holds the fill and stroke colors for a rendered map.
type Theme struct {
	Land       string
	Border     string
	Marker     string
	Focus      string
	Background string
}

// DefaultTheme matches the default front-end palette.
var DefaultTheme = Theme{
	Land:       "#e8e6e1",
	Border:     "#8a8577",
	Marker:     "#b3332a",
	Focus:      "#d8d2c4",
	Background: "#f7f6f3",
}

// Map bundles the inputs of one render pass.
type Map struct {
	Index      *geo.Index
	Records    []*placement.Record
	Projection project.Projection
}

// Option configures a render pass.
type Option func(*renderer)

type renderer struct {
	theme     Theme
	transform viewport.Transform
	focusKey  string
	radius    float64
	minRadius float64
	maxRadius float64
	stroke    float64
	minStroke float64
	maxStroke float64
	tooltips  bool
	density   float64
}

// WithTheme overrides the default palette.
func WithTheme(t Theme) Option { return func(r *renderer) { r.theme = t } }

// WithTransform applies a viewport transform to all geometry. Stroke
// widths and marker radii are compensated by 1/K within their clamp
// ranges so zooming never fattens borders or markers.
func WithTransform(t viewport.Transform) Option {
	return func(r *renderer) { r.transform = t }
}

// WithFocus highlights one region by normalized key.
func WithFocus(key string) Option {
	return func(r *renderer) { r.focusKey = geo.NormalizeKey(key) }
}

// WithMarkerRadius sets the base marker radius and its clamp range.
func WithMarkerRadius(base, minR, maxR float64) Option {
	return func(r *renderer) { r.radius, r.minRadius, r.maxRadius = base, minR, maxR }
}

// WithStroke sets the base border stroke width and its clamp range.
func WithStroke(base, minW, maxW float64) Option {
	return func(r *renderer) { r.stroke, r.minStroke, r.maxStroke = base, minW, maxW }
}

// WithTooltips adds a <title> per marker with the record's name, county
// and year, surfaced by browsers as a hover tooltip.
func WithTooltips() Option { return func(r *renderer) { r.tooltips = true } }

// WithDensity shades every region with a blue-noise dot fill at the given
// minimum spacing in degrees, instead of per-record markers.
func WithDensity(minDist float64) Option {
	return func(r *renderer) { r.density = minDist }
}

// RenderSVG renders the map to an SVG document.
func RenderSVG(m Map, opts ...Option) []byte {
	r := renderer{
		theme:     DefaultTheme,
		transform: viewport.Identity,
		radius:    4, minRadius: 1, maxRadius: 6,
		stroke: 1.5, minStroke: 0.2, maxStroke: 1.5,
	}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := m.Projection.Size()
	strokeW := clamp(r.stroke/r.transform.K, r.minStroke, r.maxStroke)
	radius := clamp(r.radius/r.transform.K, r.minRadius, r.maxRadius)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:"+r.theme.Background)

	canvas.Gtransform(fmt.Sprintf("translate(%g,%g) scale(%g)",
		r.transform.TX, r.transform.TY, r.transform.K))

	for _, name := range m.Index.Names() {
		region, ok := m.Index.Lookup(name)
		if !ok {
			continue
		}
		fill := r.theme.Land
		if region.Key == r.focusKey {
			fill = r.theme.Focus
		}
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", fill, r.theme.Border, strokeW)
		canvas.Path(regionPath(region, m.Projection), style)
	}

	if r.density > 0 {
		r.renderDensity(canvas, m, radius)
	} else {
		r.renderMarkers(canvas, m, radius)
	}

	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func (r *renderer) renderMarkers(canvas *svg.SVG, m Map, radius float64) {
	style := fmt.Sprintf("fill:%s;fill-opacity:0.75;stroke:none", r.theme.Marker)
	for _, rec := range m.Records {
		pt, ok := rec.Placement()
		if !ok {
			// Unplaced records never render.
			continue
		}
		x, y := m.Projection.Project(pt)
		if r.tooltips {
			canvas.Group()
			canvas.Title(markerTitle(rec))
			canvas.Circle(x, y, radius, style)
			canvas.Gend()
			continue
		}
		canvas.Circle(x, y, radius, style)
	}
}

func (r *renderer) renderDensity(canvas *svg.SVG, m Map, radius float64) {
	style := fmt.Sprintf("fill:%s;fill-opacity:0.4;stroke:none", r.theme.Marker)
	for _, name := range m.Index.Names() {
		region, ok := m.Index.Lookup(name)
		if !ok {
			continue
		}
		for _, pt := range geo.PoissonFill(region, r.density) {
			x, y := m.Projection.Project(pt)
			canvas.Circle(x, y, radius/2, style)
		}
	}
}

// regionPath converts a region's rings into one SVG path. Inner rings
// (holes) rely on the default even-odd fill rule.
func regionPath(region *geo.Region, p project.Projection) string {
	var b strings.Builder
	for _, poly := range region.Geometry {
		for _, ring := range poly {
			for i, pt := range ring {
				x, y := p.Project(pt)
				if i == 0 {
					fmt.Fprintf(&b, "M%.2f,%.2f", x, y)
				} else {
					fmt.Fprintf(&b, "L%.2f,%.2f", x, y)
				}
			}
			b.WriteString("Z")
		}
	}
	return b.String()
}

func markerTitle(rec *placement.Record) string {
	parts := []string{rec.Name}
	if c := placement.ResolveCounty(rec); c != "" {
		parts = append(parts, c)
	}
	if rec.Year != placement.YearUnknown {
		parts = append(parts, fmt.Sprintf("%d", rec.Year))
	}
	return strings.Join(parts, " · ")
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
