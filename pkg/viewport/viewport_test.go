package viewport

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/project"
)

var testBound = orb.Bound{
	Min: orb.Point{33.9, -4.7},
	Max: orb.Point{41.9, 5.5},
}

func testRegion(name string, x, y float64) *geo.Region {
	return geo.NewRegion(name, orb.MultiPolygon{
		{{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}},
	})
}

func testSetup() (*State, project.Projection) {
	s := NewState(800, 600, 0, 0)
	p := project.FitCollection(testBound, 800, 600, project.DefaultMargin)
	return s, p
}

func TestFocusToggle(t *testing.T) {
	s, p := testSetup()
	r := testRegion("Nairobi", 36, -2)

	tr := s.Focus(r, p)
	if s.Focused() == nil || s.Focused().Key != "nairobi" {
		t.Fatal("state should be focused on nairobi")
	}
	if tr.K <= 1 {
		t.Errorf("focus K = %f, want > 1 for a small region", tr.K)
	}

	// Focusing the same region toggles back to overview.
	tr = s.Focus(r, p)
	if s.Focused() != nil {
		t.Fatal("re-focusing the focused region should return to overview")
	}
	if tr != Identity {
		t.Errorf("overview transform = %+v, want identity", tr)
	}
}

func TestFocusSwitchGoesViaOverview(t *testing.T) {
	s, p := testSetup()
	r1 := testRegion("Nairobi", 36, -2)
	r2 := testRegion("Mombasa", 39, -4)

	s.Focus(r1, p)
	viaFocused := s.Focus(r2, p)

	// The same end state must be reachable by resetting first.
	s2, _ := testSetup()
	s2.Focus(r2, p)
	direct := s2.Transform()

	if s.Focused() == nil || s.Focused().Key != "mombasa" {
		t.Fatal("state should be focused on mombasa")
	}
	if math.Abs(viaFocused.K-direct.K) > 1e-9 ||
		math.Abs(viaFocused.TX-direct.TX) > 1e-9 ||
		math.Abs(viaFocused.TY-direct.TY) > 1e-9 {
		t.Errorf("focused-to-focused transform %+v differs from overview-to-focused %+v", viaFocused, direct)
	}
}

func TestFocusCentersRegion(t *testing.T) {
	s, p := testSetup()
	r := testRegion("Kisumu", 34.5, -0.5)

	tr := s.Focus(r, p)

	b := r.Bound()
	cx, cy := p.Project(orb.Point{
		(b.Min.X() + b.Max.X()) / 2,
		(b.Min.Y() + b.Max.Y()) / 2,
	})
	sx, sy := tr.Apply(cx, cy)
	// Mercator skew between the geographic and projected bbox centers is
	// negligible at this scale.
	if math.Abs(sx-400) > 1.0 || math.Abs(sy-300) > 1.0 {
		t.Errorf("region center lands at (%f, %f), want viewport center", sx, sy)
	}
}

func TestZoomClamped(t *testing.T) {
	s, _ := testSetup()

	for range 20 {
		s.ZoomBy(3)
	}
	if k := s.Transform().K; k != DefaultKMax {
		t.Errorf("K = %f after repeated zoom in, want clamp at %f", k, DefaultKMax)
	}

	for range 40 {
		s.ZoomBy(0.25)
	}
	if k := s.Transform().K; k != DefaultKMin {
		t.Errorf("K = %f after repeated zoom out, want clamp at %f", k, DefaultKMin)
	}
}

func TestZoomAboutAnchorFixed(t *testing.T) {
	s, _ := testSetup()
	s.Pan(37, -12)

	const ax, ay = 250.0, 180.0
	before := s.Transform()
	bx, by := before.Unapply(ax, ay)

	s.ZoomAbout(2, ax, ay)
	after := s.Transform()
	ax2, ay2 := after.Apply(bx, by)

	if math.Abs(ax2-ax) > 1e-9 || math.Abs(ay2-ay) > 1e-9 {
		t.Errorf("anchor moved to (%f, %f) during zoom, want (%f, %f)", ax2, ay2, ax, ay)
	}
}

func TestPanKeepsFocus(t *testing.T) {
	s, p := testSetup()
	r := testRegion("Nakuru", 35.8, -0.9)

	s.Focus(r, p)
	s.Pan(10, 20)

	if s.Focused() == nil {
		t.Error("pan should not drop region focus")
	}
	if tr := s.Transform(); tr.K <= 1 {
		t.Errorf("pan should not reset zoom, K = %f", tr.K)
	}
}

func TestResize(t *testing.T) {
	s, p := testSetup()
	r := testRegion("Nairobi", 36, -2)
	s.Focus(r, p)

	p2 := project.FitCollection(testBound, 1200, 900, project.DefaultMargin)
	tr := s.Resize(1200, 900, p2)

	if s.Focused() == nil {
		t.Fatal("resize should keep region focus")
	}
	b := r.Bound()
	cx, cy := p2.Project(orb.Point{
		(b.Min.X() + b.Max.X()) / 2,
		(b.Min.Y() + b.Max.Y()) / 2,
	})
	sx, sy := tr.Apply(cx, cy)
	if math.Abs(sx-600) > 1.0 || math.Abs(sy-450) > 1.0 {
		t.Errorf("region center at (%f, %f) after resize, want new viewport center", sx, sy)
	}

	// Resize in overview resets to identity.
	s.Reset()
	if tr := s.Resize(640, 480, p2); tr != Identity {
		t.Errorf("overview resize transform = %+v, want identity", tr)
	}
}

func TestScaledStrokeAndRadius(t *testing.T) {
	s, _ := testSetup()

	if w := s.StrokeWidth(1.5, 0.2, 1.5); w != 1.5 {
		t.Errorf("overview stroke = %f, want base 1.5", w)
	}

	s.ZoomBy(10)
	if w := s.StrokeWidth(1.5, 0.2, 1.5); math.Abs(w-0.2) > 1e-9 {
		t.Errorf("zoomed stroke = %f, want clamped to 0.2", w)
	}
	if r := s.MarkerRadius(4, 1, 6); math.Abs(r-1) > 1e-9 {
		t.Errorf("zoomed radius = %f, want clamped to 1", r)
	}
}
