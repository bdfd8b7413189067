package backend

import (
	"image"

	"github.com/dshills/tinyedit/internal/renderer/core"
)

// ScreenBuffer is a double buffer. Drawing goes to the back buffer; Flush
// sends only the cells that differ from the front buffer.
type ScreenBuffer struct {
	width, height int
	front, back   []core.Cell
	fullRedraw    bool
}

// NewScreenBuffer creates a buffer of the given size.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{}
	sb.Resize(width, height)
	return sb
}

// Resize reallocates the buffer and forces a full redraw.
func (sb *ScreenBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	sb.width, sb.height = width, height
	sb.front = make([]core.Cell, width*height)
	sb.back = make([]core.Cell, width*height)
	for i := range sb.back {
		sb.back[i] = core.EmptyCell()
		sb.front[i] = core.EmptyCell()
	}
	sb.fullRedraw = true
}

// Size returns the buffer size.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

// Bounds returns the buffer area.
func (sb *ScreenBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, sb.width, sb.height)
}

// SetCell writes a cell to the back buffer. Out of range writes are
// ignored.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.back[y*sb.width+x] = cell
}

// Cell returns a cell of the back buffer.
func (sb *ScreenBuffer) Cell(x, y int) core.Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return core.EmptyCell()
	}
	return sb.back[y*sb.width+x]
}

// Fill sets every cell of r, clipped to the buffer.
func (sb *ScreenBuffer) Fill(r image.Rectangle, cell core.Cell) {
	r = r.Intersect(sb.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sb.back[y*sb.width+x] = cell
		}
	}
}

// Clear blanks the back buffer.
func (sb *ScreenBuffer) Clear() {
	sb.Fill(sb.Bounds(), core.EmptyCell())
}

// SetString writes s at (x, y) and returns the column after it. Wide runes
// take two cells, the second a continuation cell; zero-width runes are
// dropped.
func (sb *ScreenBuffer) SetString(x, y int, s string, style core.Style, class string) int {
	for _, r := range s {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		sb.SetCell(x, y, core.Cell{Rune: r, Width: w, Style: style, Class: class})
		if w == 2 {
			sb.SetCell(x+1, y, core.ContinuationCell())
		}
		x += w
	}
	return x
}

// DiffChange is one cell to send to the backend.
type DiffChange struct {
	X, Y int
	Cell core.Cell
}

// ComputeDiff returns the cells that differ between back and front.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange
	for i, c := range sb.back {
		if sb.fullRedraw || !c.Equals(sb.front[i]) {
			changes = append(changes, DiffChange{X: i % sb.width, Y: i / sb.width, Cell: c})
		}
	}
	return changes
}

// Sync makes the back buffer the displayed state.
func (sb *ScreenBuffer) Sync() {
	copy(sb.front, sb.back)
	sb.fullRedraw = false
}

// MarkFullRedraw makes the next diff include every cell.
func (sb *ScreenBuffer) MarkFullRedraw() {
	sb.fullRedraw = true
}

// Flush sends the diff to b, syncs, and calls b.Show. It returns the number
// of cells sent.
func (sb *ScreenBuffer) Flush(b Backend) int {
	changes := sb.ComputeDiff()
	for _, ch := range changes {
		b.SetCell(ch.X, ch.Y, ch.Cell)
	}
	sb.Sync()
	b.Show()
	return len(changes)
}
