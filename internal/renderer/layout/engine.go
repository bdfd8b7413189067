package layout

import (
	"image"
	"sync"

	"github.com/dshills/tinyedit/internal/engine/document"
)

// Engine lays a document out in a content area. Line i occupies the row
// Origin.Y+i and its first column is Origin.X. Coordinates are absolute:
// scrolling is applied by the caller.
type Engine struct {
	mu     sync.RWMutex
	doc    *document.Document
	origin image.Point
	width  int
}

// New creates an Engine for doc with the content area starting at origin.
func New(doc *document.Document, origin image.Point) *Engine {
	return &Engine{doc: doc, origin: origin}
}

// Document returns the laid out document.
func (e *Engine) Document() *document.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc
}

// SetDocument replaces the laid out document.
func (e *Engine) SetDocument(doc *document.Document) {
	e.mu.Lock()
	e.doc = doc
	e.mu.Unlock()
}

// Origin returns the top-left corner of the content area.
func (e *Engine) Origin() image.Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.origin
}

// SetOrigin moves the content area, for example after the gutter grows.
func (e *Engine) SetOrigin(p image.Point) {
	e.mu.Lock()
	e.origin = p
	e.mu.Unlock()
}

// SetWidth sets the minimum width of a line box. Lines never report a box
// narrower than their content plus one column for a trailing caret.
func (e *Engine) SetWidth(w int) {
	e.mu.Lock()
	e.width = max(w, 0)
	e.mu.Unlock()
}

// Bounds returns the rectangle covering every line.
func (e *Engine) Bounds() image.Rectangle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	w := e.width
	for _, l := range e.doc.Lines() {
		_, end := Columns(l)
		w = max(w, end+1)
	}
	return image.Rect(e.origin.X, e.origin.Y, e.origin.X+w, e.origin.Y+e.doc.LineCount())
}

// LineAt returns the line on row y.
func (e *Engine) LineAt(y int) (*document.Line, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	l := e.doc.Line(y - e.origin.Y)
	return l, l != nil
}

// LineBounds implements caret.Geometry.
func (e *Engine) LineBounds(l *document.Line) (image.Rectangle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i := e.doc.IndexOf(l)
	if i < 0 {
		return image.Rectangle{}, false
	}
	_, end := Columns(l)
	w := max(e.width, end+1)
	y := e.origin.Y + i
	return image.Rect(e.origin.X, y, e.origin.X+w, y+1), true
}

// FragmentBounds implements caret.Geometry. Zero-width fragments get an
// empty rectangle at their column.
func (e *Engine) FragmentBounds(f *document.Fragment) (image.Rectangle, bool) {
	l := f.Line()
	if l == nil {
		return image.Rectangle{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	i := e.doc.IndexOf(l)
	if i < 0 {
		return image.Rectangle{}, false
	}
	idx := l.Index(f)
	if idx < 0 {
		return image.Rectangle{}, false
	}
	starts, _ := Columns(l)
	x := e.origin.X + starts[idx]
	y := e.origin.Y + i
	return image.Rect(x, y, x+FragmentWidth(f), y+1), true
}

// CaretFromPoint implements caret.PointLocator. The returned position may
// fall strictly inside a tab.
func (e *Engine) CaretFromPoint(l *document.Line, x, y int) (document.Position, bool) {
	r, ok := e.LineBounds(l)
	if !ok || y < r.Min.Y || y >= r.Max.Y {
		return document.Position{}, false
	}
	pos, err := l.FragmentAtOffset(OffsetAtColumn(l, x-r.Min.X))
	if err != nil {
		return document.Position{}, false
	}
	return pos, true
}

// FragmentAt returns the non zero-width fragment covering column x of l, or
// nil when x lies before or past the line content.
func (e *Engine) FragmentAt(l *document.Line, x int) *document.Fragment {
	col := x - e.Origin().X
	if col < 0 {
		return nil
	}
	starts, _ := Columns(l)
	for i, f := range l.Fragments() {
		w := FragmentWidth(f)
		if w > 0 && col >= starts[i] && col < starts[i]+w {
			return f
		}
	}
	return nil
}

// CursorAt returns a cursor fragment drawn at column x of l.
func (e *Engine) CursorAt(l *document.Line, x int) *document.Fragment {
	col := x - e.Origin().X
	starts, _ := Columns(l)
	for i, f := range l.Fragments() {
		if f.Kind() == document.KindCursor && starts[i] == col {
			return f
		}
	}
	return nil
}
