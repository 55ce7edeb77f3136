package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/placement"
)

func TestBrailleMaskLayout(t *testing.T) {
	// Dots in one cell must have distinct bits, and all eight together
	// must form the full braille mask.
	var all uint8
	seen := map[uint8]bool{}
	for my := 0; my < microPerCellY; my++ {
		for mx := 0; mx < microPerCellX; mx++ {
			m := brailleMask(mx, my)
			if seen[m] {
				t.Errorf("duplicate mask %#x at (%d,%d)", m, mx, my)
			}
			seen[m] = true
			all |= m
		}
	}
	if all != 0xff {
		t.Errorf("masks cover %#x, want 0xff", all)
	}
}

func TestBrailleBufSetPixel(t *testing.T) {
	buf := newBrailleBuf(2, 1)

	buf.setPixel(0, 0, layerBorder)
	buf.setPixel(1, 3, layerMarker)

	if buf.masks[0] != (0x01 | 0x80) {
		t.Errorf("cell mask = %#x, want %#x", buf.masks[0], 0x01|0x80)
	}
	if buf.layers[0] != layerMarker {
		t.Errorf("cell layer = %d, want the higher layer %d", buf.layers[0], layerMarker)
	}
	if buf.masks[1] != 0 {
		t.Errorf("untouched cell mask = %#x, want 0", buf.masks[1])
	}
}

func TestBrailleBufClipping(t *testing.T) {
	buf := newBrailleBuf(2, 2)

	buf.setPixel(-1, 0, layerBorder)
	buf.setPixel(0, -1, layerBorder)
	buf.setPixel(2*microPerCellX, 0, layerBorder)
	buf.setPixel(0, 2*microPerCellY, layerBorder)

	for i, m := range buf.masks {
		if m != 0 {
			t.Errorf("cell %d lit by out-of-range pixel, mask %#x", i, m)
		}
	}
}

func TestBrailleBufDrawLine(t *testing.T) {
	buf := newBrailleBuf(4, 1)

	// A horizontal line across the top row lights every cell.
	buf.drawLine(0, 0, 4*microPerCellX-1, 0, layerBorder)
	for i := 0; i < 4; i++ {
		if buf.masks[i]&(0x01|0x08) != 0x01|0x08 {
			t.Errorf("cell %d mask = %#x, want top dots lit", i, buf.masks[i])
		}
	}
}

func TestBrailleBufFillPolygon(t *testing.T) {
	buf := newBrailleBuf(4, 4)

	// A rectangle over the full buffer fills every interior cell.
	ring := [][2]float64{
		{0, 0},
		{float64(4 * microPerCellX), 0},
		{float64(4 * microPerCellX), float64(4 * microPerCellY)},
		{0, float64(4 * microPerCellY)},
	}
	buf.fillPolygon(ring, layerFill)

	lit := 0
	for _, m := range buf.masks {
		if m != 0 {
			lit++
		}
	}
	if lit != 16 {
		t.Errorf("filled cells = %d, want 16", lit)
	}
}

func tuiTestIndex(t *testing.T) *geo.Index {
	t.Helper()
	square := func(name string, x, y float64) *geo.Region {
		return geo.NewRegion(name, orb.MultiPolygon{{orb.Ring{
			{x, y}, {x + 5, y}, {x + 5, y + 5}, {x, y + 5}, {x, y},
		}}})
	}
	idx, err := geo.NewIndex([]*geo.Region{
		square("Nairobi", 36, -2),
		square("Mombasa", 39, -5),
	})
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestMapModelResizeAndView(t *testing.T) {
	m := newMapModel(tuiTestIndex(t), nil)

	if got := m.View(); !strings.Contains(got, "loading") {
		t.Errorf("pre-size view = %q, want a loading placeholder", got)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = updated.(mapModel)
	if !m.ready {
		t.Fatal("model should be ready after a window size message")
	}

	view := m.View()
	if !strings.Contains(view, "2 counties") {
		t.Errorf("status line missing county count:\n%s", view)
	}
	if !strings.Contains(view, "overview") {
		t.Errorf("status line should report overview mode:\n%s", view)
	}
	found := false
	for _, r := range view {
		if r >= 0x2800 && r <= 0x28ff {
			found = true
			break
		}
	}
	if !found {
		t.Error("view contains no braille glyphs")
	}
}

func TestMapModelFocusCycle(t *testing.T) {
	m := newMapModel(tuiTestIndex(t), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = updated.(mapModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(mapModel)
	if f := m.state.Focused(); f == nil || f.Name != "Nairobi" {
		t.Fatalf("first tab should focus the first county, got %v", f)
	}
	if m.state.Transform().K <= 1 {
		t.Errorf("focus should zoom in, K = %g", m.state.Transform().K)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(mapModel)
	if f := m.state.Focused(); f == nil || f.Name != "Mombasa" {
		t.Fatalf("second tab should focus the second county, got %v", f)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(mapModel)
	if m.state.Focused() != nil {
		t.Error("reset should return to overview")
	}
	if m.state.Transform().K != 1 {
		t.Errorf("reset should restore identity, K = %g", m.state.Transform().K)
	}
}

func TestMapModelMarkers(t *testing.T) {
	rec := &placement.Record{Name: "Case One", County: "Nairobi"}
	rec.SetPlacement(orb.Point{38.5, -3.5})

	m := newMapModel(tuiTestIndex(t), []*placement.Record{rec})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = updated.(mapModel)

	view := m.View()
	if !strings.Contains(view, "1 markers") {
		t.Errorf("status line should count the placed marker:\n%s", view)
	}
}

func TestMapModelQuit(t *testing.T) {
	m := newMapModel(tuiTestIndex(t), nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = updated.(mapModel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
}
