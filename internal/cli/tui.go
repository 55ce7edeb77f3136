package cli

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/placement"
	"github.com/openkenya/countymap/pkg/project"
	"github.com/openkenya/countymap/pkg/viewport"
)

// Each terminal cell is a braille glyph covering a 2x4 grid of dots, so
// the drawing plane is twice the column count wide and four times the row
// count tall. Pixels are accumulated as dot masks and emitted as runes in
// the U+2800 block.
const (
	microPerCellX = 2
	microPerCellY = 4
)

// brailleMask returns the dot bit for a micro position within its cell.
// The braille block orders dots column-major with the bottom row split
// off, hence the irregular masks.
func brailleMask(mx, my int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if mx%microPerCellX == 0 {
		return left[my%microPerCellY]
	}
	return right[my%microPerCellY]
}

// Draw layers, in priority order. A cell renders with the style of the
// highest layer any of its dots was drawn on.
const (
	layerNone = iota
	layerFill
	layerBorder
	layerFocus
	layerMarker
)

// brailleBuf is an off-screen dot buffer for one frame.
type brailleBuf struct {
	cols, rows int
	masks      []uint8
	layers     []uint8
}

func newBrailleBuf(cols, rows int) *brailleBuf {
	return &brailleBuf{
		cols:   cols,
		rows:   rows,
		masks:  make([]uint8, cols*rows),
		layers: make([]uint8, cols*rows),
	}
}

// setPixel lights one dot on the micro grid. Out-of-range positions are
// dropped, which is how geometry outside the viewport gets clipped.
func (b *brailleBuf) setPixel(mx, my, layer int) {
	if mx < 0 || my < 0 || mx >= b.cols*microPerCellX || my >= b.rows*microPerCellY {
		return
	}
	i := (my/microPerCellY)*b.cols + mx/microPerCellX
	b.masks[i] |= brailleMask(mx, my)
	if uint8(layer) > b.layers[i] {
		b.layers[i] = uint8(layer)
	}
}

// drawLine draws a Bresenham line between two micro positions.
func (b *brailleBuf) drawLine(x0, y0, x1, y1, layer int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, layer)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawDot lights a 2x2 block so markers stay visible at any zoom.
func (b *brailleBuf) drawDot(mx, my, layer int) {
	b.setPixel(mx, my, layer)
	b.setPixel(mx+1, my, layer)
	b.setPixel(mx, my+1, layer)
	b.setPixel(mx+1, my+1, layer)
}

// fillPolygon rasterizes a ring interior with an even-odd scanline pass
// over micro rows. Rings are in micro coordinates.
func (b *brailleBuf) fillPolygon(ring [][2]float64, layer int) {
	if len(ring) < 3 {
		return
	}
	minY, maxY := ring[0][1], ring[0][1]
	for _, p := range ring {
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	y0 := max(int(minY), 0)
	y1 := min(int(maxY), b.rows*microPerCellY-1)

	for my := y0; my <= y1; my++ {
		fy := float64(my) + 0.5
		var xs []float64
		for i := range ring {
			a, c := ring[i], ring[(i+1)%len(ring)]
			if (a[1] <= fy) == (c[1] <= fy) {
				continue
			}
			t := (fy - a[1]) / (c[1] - a[1])
			xs = append(xs, a[0]+t*(c[0]-a[0]))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for mx := int(xs[i]); mx <= int(xs[i+1]); mx++ {
				b.setPixel(mx, my, layer)
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// render emits the buffer as styled terminal rows.
func (b *brailleBuf) render(styles [5]lipgloss.Style) string {
	var sb strings.Builder
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			i := row*b.cols + col
			if b.masks[i] == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(styles[b.layers[i]].Render(string(rune(0x2800 + int(b.masks[i])))))
		}
		if row < b.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Interactive-view tunables. Pan moves in screen dots so the feel does
// not change with zoom level.
const (
	panStep    = 8.0
	zoomInStep = 1.25
	zoomOutMin = 0.8
	fitMargin  = 2.0
)

var (
	tuiBorderStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiFillStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiFocusStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	tuiMarkerStyle = lipgloss.NewStyle().Foreground(colorRed)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorWhite)
	tuiHintStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// mapModel is the interactive terminal map. All geometry flows through
// the same projection and viewport transform as the SVG renderer, so a
// focus in the terminal matches a focus in the browser.
type mapModel struct {
	index   *geo.Index
	records []*placement.Record

	state *viewport.State
	proj  project.Projection

	cols, rows int
	ready      bool

	names    []string
	focusIdx int

	showHelp bool
}

func newMapModel(index *geo.Index, records []*placement.Record) mapModel {
	return mapModel{
		index:    index,
		records:  records,
		names:    index.Names(),
		focusIdx: -1,
	}
}

func (m mapModel) Init() tea.Cmd {
	return nil
}

func (m mapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-2, 1) // reserve two rows for status and hints
		w := float64(m.cols * microPerCellX)
		h := float64(m.rows * microPerCellY)
		m.proj = project.FitCollection(m.index.Bound(), w, h, fitMargin)
		if m.state == nil {
			m.state = viewport.NewState(w, h, viewport.DefaultKMin, viewport.DefaultKMax)
		} else {
			m.state.Resize(w, h, m.proj)
		}
		m.ready = true

	case tea.KeyMsg:
		if !m.ready {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.state.Pan(panStep, 0)
		case "right":
			m.state.Pan(-panStep, 0)
		case "up":
			m.state.Pan(0, panStep)
		case "down":
			m.state.Pan(0, -panStep)
		case "+", "=":
			m.state.ZoomBy(zoomInStep)
		case "-", "_":
			m.state.ZoomBy(zoomOutMin)
		case "tab", "n":
			m.cycleFocus(1)
		case "shift+tab", "p":
			m.cycleFocus(-1)
		case "r", "0":
			m.focusIdx = -1
			m.state.Reset()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

// cycleFocus moves focus to the next or previous county in dataset order,
// wrapping at either end.
func (m *mapModel) cycleFocus(step int) {
	if len(m.names) == 0 {
		return
	}
	m.focusIdx = ((m.focusIdx+step)%len(m.names) + len(m.names)) % len(m.names)
	if r, ok := m.index.Lookup(m.names[m.focusIdx]); ok {
		m.state.Focus(r, m.proj)
	}
}

func (m mapModel) View() string {
	if !m.ready {
		return "loading map..."
	}

	buf := newBrailleBuf(m.cols, m.rows)
	t := m.state.Transform()

	focused := m.state.Focused()

	for _, name := range m.names {
		r, ok := m.index.Lookup(name)
		if !ok {
			continue
		}
		layer := layerBorder
		if focused != nil && r.Key == focused.Key {
			layer = layerFocus
			for _, poly := range r.Geometry {
				if len(poly) > 0 {
					buf.fillPolygon(m.microRing(poly[0], t), layerFill)
				}
			}
		}
		for _, poly := range r.Geometry {
			for _, ring := range poly {
				m.strokeRing(buf, ring, t, layer)
			}
		}
	}

	placed := 0
	for _, rec := range m.records {
		pt, ok := rec.Placement()
		if !ok {
			continue
		}
		placed++
		x, y := t.Apply(m.proj.Project(pt))
		buf.drawDot(int(x), int(y), layerMarker)
	}

	styles := [5]lipgloss.Style{
		{}, tuiFillStyle, tuiBorderStyle, tuiFocusStyle, tuiMarkerStyle,
	}

	var sb strings.Builder
	sb.WriteString(buf.render(styles))
	sb.WriteByte('\n')
	sb.WriteString(m.statusLine(placed))
	sb.WriteByte('\n')
	sb.WriteString(m.hintLine())
	return sb.String()
}

func (m mapModel) strokeRing(buf *brailleBuf, ring orb.Ring, t viewport.Transform, layer int) {
	if len(ring) < 2 {
		return
	}
	px, py := t.Apply(m.proj.Project(ring[0]))
	for _, pt := range ring[1:] {
		x, y := t.Apply(m.proj.Project(pt))
		buf.drawLine(int(px), int(py), int(x), int(y), layer)
		px, py = x, y
	}
}

func (m mapModel) microRing(ring orb.Ring, t viewport.Transform) [][2]float64 {
	out := make([][2]float64, len(ring))
	for i, pt := range ring {
		x, y := t.Apply(m.proj.Project(pt))
		out[i] = [2]float64{x, y}
	}
	return out
}

func (m mapModel) statusLine(placed int) string {
	mode := "overview"
	if f := m.state.Focused(); f != nil {
		mode = f.Name
	}
	return tuiStatusStyle.Render(fmt.Sprintf(
		"%s · %d counties · %d markers · zoom %.1fx · %s",
		appName, m.index.Len(), placed, m.state.Transform().K, mode,
	))
}

func (m mapModel) hintLine() string {
	if m.showHelp {
		return tuiHintStyle.Render(
			"arrows pan · +/- zoom · tab/n next county · shift+tab/p prev · r reset · q quit",
		)
	}
	return tuiHintStyle.Render("h help · q quit")
}
