// Package viewport tracks the pan/zoom transform applied to all rendered
// geometry.
//
// The transform state is the single source of truth consulted whenever
// geometry is drawn or a point's pixel position is computed. All mutation
// funnels through the transition methods here; event handlers hold a
// *State and never reassign transforms directly, so there are no ordering
// dependencies between handlers. Updates are last-writer-wins: a gesture
// arriving mid-transition supersedes the transition's target.
package viewport

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/project"
)

// Transform is a uniform scale K plus a pixel translation, applied to
// projected (pixel) coordinates.
type Transform struct {
	K  float64 `json:"k"`
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

// Identity is the overview transform.
var Identity = Transform{K: 1}

// Apply maps an unscaled pixel position through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.TX, y*t.K + t.TY
}

// Unapply inverts Apply, mapping a screen position back to the unscaled
// pixel plane.
func (t Transform) Unapply(x, y float64) (float64, float64) {
	return (x - t.TX) / t.K, (y - t.TY) / t.K
}

// Defaults for the gesture zoom bounds and the focus fit.
const (
	DefaultKMin = 1.0
	DefaultKMax = 40.0

	// focusMargin leaves 10% of the viewport around a focused region.
	focusMargin = 0.10

	// DefaultTransition is the suggested focus animation duration for
	// renderers that animate; the state itself switches instantly.
	DefaultTransitionMS = 750
)

// State is the viewport transform state machine. It has two modes:
// Overview (identity transform) and Focused (centered and scaled onto one
// region). It is owned by the single event-handling goroutine and is not
// safe for concurrent mutation.
type State struct {
	width, height float64
	kMin, kMax    float64

	transform Transform
	focused   *geo.Region
}

// NewState creates an overview-mode state for a w×h viewport with the
// given zoom bounds. Zero bounds fall back to the defaults.
func NewState(w, h, kMin, kMax float64) *State {
	if kMin <= 0 {
		kMin = DefaultKMin
	}
	if kMax <= kMin {
		kMax = DefaultKMax
	}
	return &State{
		width:     w,
		height:    h,
		kMin:      kMin,
		kMax:      kMax,
		transform: Identity,
	}
}

// Transform returns the current transform. Draw code reads this on every
// frame; stroke widths and marker radii derive from its K.
func (s *State) Transform() Transform {
	return s.transform
}

// Focused returns the currently focused region, or nil in overview mode.
func (s *State) Focused() *geo.Region {
	return s.focused
}

// Focus transitions toward region r under toggle semantics:
//
//   - Overview → Focused(r): compute r's fit transform.
//   - Focused(r) → Overview: focusing the already-focused region zooms
//     back out to the overview transform.
//   - Focused(other) → Focused(r): resets to overview first, then applies
//     r's fit; there is no direct region-to-region transform.
//
// The returned transform is the new current transform.
func (s *State) Focus(r *geo.Region, p project.Projection) Transform {
	if s.focused != nil {
		same := s.focused.Key == r.Key
		s.reset()
		if same {
			return s.transform
		}
	}
	s.focused = r
	s.transform = s.fitTransform(r, p)
	return s.transform
}

// Reset returns to overview mode with the identity transform.
func (s *State) Reset() Transform {
	s.reset()
	return s.transform
}

func (s *State) reset() {
	s.focused = nil
	s.transform = Identity
}

// Pan shifts the view by a gesture delta in screen pixels. Panning leaves
// focus mode untouched; only the transform moves.
func (s *State) Pan(dx, dy float64) Transform {
	s.transform.TX += dx
	s.transform.TY += dy
	return s.transform
}

// ZoomBy scales the view by factor about the viewport center, clamping K
// to the configured bounds. Translation is adjusted so the center stays
// fixed on screen.
func (s *State) ZoomBy(factor float64) Transform {
	return s.ZoomAbout(factor, s.width/2, s.height/2)
}

// ZoomAbout scales the view by factor about a screen anchor point.
func (s *State) ZoomAbout(factor, ax, ay float64) Transform {
	k := clamp(s.transform.K*factor, s.kMin, s.kMax)
	applied := k / s.transform.K
	s.transform.TX = ax + (s.transform.TX-ax)*applied
	s.transform.TY = ay + (s.transform.TY-ay)*applied
	s.transform.K = k
	return s.transform
}

// Resize updates the viewport size. The transform is reset to the current
// mode's base: a focused region is re-fit against the new projection, the
// overview snaps back to identity.
func (s *State) Resize(w, h float64, p project.Projection) Transform {
	s.width, s.height = w, h
	if s.focused != nil {
		s.transform = s.fitTransform(s.focused, p)
	} else {
		s.transform = Identity
	}
	return s.transform
}

// fitTransform computes the transform that centers r's projected bounding
// box and scales it to fit the viewport with a 10% margin. K never drops
// below 1 (a region is never smaller than in the overview) and never
// exceeds the gesture maximum.
func (s *State) fitTransform(r *geo.Region, p project.Projection) Transform {
	b := r.Bound()
	x0, y0 := p.Project(orb.Point{b.Min.X(), b.Max.Y()}) // northwest corner
	x1, y1 := p.Project(orb.Point{b.Max.X(), b.Min.Y()}) // southeast corner

	w := math.Abs(x1 - x0)
	h := math.Abs(y1 - y0)
	cx := (x0 + x1) / 2
	cy := (y0 + y1) / 2

	k := (1 - 2*focusMargin) * min(s.width/max(w, 1e-9), s.height/max(h, 1e-9))
	k = clamp(k, 1, s.kMax)

	return Transform{
		K:  k,
		TX: s.width/2 - cx*k,
		TY: s.height/2 - cy*k,
	}
}

// StrokeWidth returns the border stroke width for the current zoom:
// inversely proportional to K, clamped to [minW, maxW].
func (s *State) StrokeWidth(base, minW, maxW float64) float64 {
	return clamp(base/s.transform.K, minW, maxW)
}

// MarkerRadius returns the point marker radius for the current zoom:
// inversely proportional to K, clamped to [minR, maxR].
func (s *State) MarkerRadius(base, minR, maxR float64) float64 {
	return clamp(base/s.transform.K, minR, maxR)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
