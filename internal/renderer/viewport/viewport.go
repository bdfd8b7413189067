// Package viewport tracks which part of a document is visible in a
// fixed-size content area and scrolls it to keep a position in view.
package viewport

import (
	"image"
	"sync"
)

// Viewport is the visible window into a document, in cells. The offset
// is the document line and column drawn at the top-left content cell.
type Viewport struct {
	mu sync.RWMutex

	offset        image.Point
	width, height int

	// Content extent. The offset never passes the last line or the end of
	// the widest line.
	lines, widest int

	// Scroll margins keep revealed positions this far from the edges.
	marginX, marginY int
}

// New creates a viewport of the given size.
func New(width, height int) *Viewport {
	return &Viewport{width: max(width, 1), height: max(height, 1)}
}

// Size returns the width and height.
func (v *Viewport) Size() (width, height int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Resize changes the size. Sizes below one cell are raised to one.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = max(width, 1), max(height, 1)
}

// SetContentSize sets the number of lines and the widest line width, and
// clamps the offset to them.
func (v *Viewport) SetContentSize(lines, widest int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lines, v.widest = max(lines, 0), max(widest, 0)
	v.offset = v.clamp(v.offset)
}

// SetMargins sets the horizontal and vertical scroll margins.
func (v *Viewport) SetMargins(x, y int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginX, v.marginY = max(x, 0), max(y, 0)
}

// Margins returns the margins in effect. They shrink on small viewports
// so that a revealed position always has somewhere to go.
func (v *Viewport) Margins() (x, y int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.margins()
}

func (v *Viewport) margins() (x, y int) {
	return min(v.marginX, (v.width-1)/2), min(v.marginY, (v.height-1)/2)
}

// Offset returns the scroll offset.
func (v *Viewport) Offset() image.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offset
}

// ScrollTo sets the offset, clamped to the content.
func (v *Viewport) ScrollTo(p image.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.clamp(p)
}

// ScrollBy moves the offset, clamped to the content.
func (v *Viewport) ScrollBy(dx, dy int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.clamp(v.offset.Add(image.Pt(dx, dy)))
}

// IsVisible reports whether document line and column are inside the
// viewport.
func (v *Viewport) IsVisible(line, col int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return image.Pt(col, line).In(v.rect())
}

// VisibleLines returns the half-open range of visible line indexes.
func (v *Viewport) VisibleLines() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offset.Y, min(v.offset.Y+v.height, v.lines)
}

// ScrollToReveal scrolls minimally so that line and col are at least the
// margins away from the edges. It reports whether the offset changed.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	mx, my := v.margins()
	target := v.offset

	switch {
	case line < target.Y+my:
		target.Y = line - my
	case line >= target.Y+v.height-my:
		target.Y = line - v.height + my + 1
	}
	switch {
	case col < target.X+mx:
		target.X = col - mx
	case col >= target.X+v.width-mx:
		target.X = col - v.width + mx + 1
	}

	target = v.clamp(target)
	if target == v.offset {
		return false
	}
	v.offset = target
	return true
}

func (v *Viewport) rect() image.Rectangle {
	return image.Rect(0, 0, v.width, v.height).Add(v.offset)
}

func (v *Viewport) clamp(p image.Point) image.Point {
	p.X = min(max(p.X, 0), v.widest)
	p.Y = min(max(p.Y, 0), max(v.lines-1, 0))
	return p
}
