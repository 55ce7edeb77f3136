// Package project maps geographic coordinates to pixel coordinates.
//
// A Projection is a spherical-Mercator transform composed with an affine
// fit to a pixel viewport. Projections are immutable values: re-fitting
// (after a resize or a region focus) produces a new Projection, and every
// dependent pixel position must be recomputed from it rather than adjusted
// incrementally.
package project

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/geo"
)

// DefaultMargin is the uniform whole-map fit margin in pixels.
const DefaultMargin = 20.0

// DefaultFocusFraction is how much of the viewport a focused region fills.
const DefaultFocusFraction = 0.9

// Projection converts [longitude, latitude] positions to pixel positions
// within a fixed viewport. The zero value is unusable; construct one with
// FitCollection or FitRegion.
type Projection struct {
	scale    float64
	centerMX float64 // mercator x of the fit target's center
	centerMY float64 // mercator y of the fit target's center
	width    float64
	height   float64
}

// FitCollection fits the whole geographic bound into a w×h viewport with a
// uniform pixel margin on all sides.
func FitCollection(b orb.Bound, w, h, margin float64) Projection {
	usableW := max(w-2*margin, 1)
	usableH := max(h-2*margin, 1)
	return fit(b, w, h, usableW, usableH)
}

// FitRegion fits one region's bound so it fills the given fraction of the
// viewport (0 < fraction ≤ 1), centered. Used for zoom-to-region focus.
func FitRegion(r *geo.Region, w, h, fraction float64) Projection {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultFocusFraction
	}
	return fit(r.Bound(), w, h, w*fraction, h*fraction)
}

func fit(b orb.Bound, w, h, usableW, usableH float64) Projection {
	minX, minY := mercator(b.Min)
	maxX, maxY := mercator(b.Max)

	mw := max(maxX-minX, 1e-12)
	mh := max(maxY-minY, 1e-12)

	return Projection{
		scale:    min(usableW/mw, usableH/mh),
		centerMX: (minX + maxX) / 2,
		centerMY: (minY + maxY) / 2,
		width:    w,
		height:   h,
	}
}

// Project returns the pixel position of a geographic point. Pixel y grows
// downward, so northern points project above southern ones.
func (p Projection) Project(pt orb.Point) (x, y float64) {
	mx, my := mercator(pt)
	x = (mx-p.centerMX)*p.scale + p.width/2
	y = (p.centerMY-my)*p.scale + p.height/2
	return x, y
}

// Invert returns the geographic point at a pixel position. It is the
// exact inverse of Project up to floating-point error.
func (p Projection) Invert(x, y float64) orb.Point {
	mx := (x-p.width/2)/p.scale + p.centerMX
	my := p.centerMY - (y-p.height/2)/p.scale
	return inverseMercator(mx, my)
}

// Size returns the viewport dimensions the projection was fit to.
func (p Projection) Size() (w, h float64) {
	return p.width, p.height
}

// Scale returns the mercator-to-pixel scale factor.
func (p Projection) Scale() float64 {
	return p.scale
}

// mercator converts degrees to spherical-Mercator plane coordinates on
// the unit sphere.
func mercator(pt orb.Point) (x, y float64) {
	x = pt.X() * math.Pi / 180
	y = math.Log(math.Tan(math.Pi/4 + pt.Y()*math.Pi/360))
	return x, y
}

func inverseMercator(x, y float64) orb.Point {
	lon := x * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y)) - math.Pi/2) * 180 / math.Pi
	return orb.Point{lon, lat}
}
