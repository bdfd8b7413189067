package renderer

import (
	"image"
	"sync"
	"time"

	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer/backend"
	"github.com/dshills/tinyedit/internal/renderer/core"
	"github.com/dshills/tinyedit/internal/renderer/cursor"
	"github.com/dshills/tinyedit/internal/renderer/gutter"
	"github.com/dshills/tinyedit/internal/renderer/layout"
	"github.com/dshills/tinyedit/internal/renderer/style"
)

// Scene is the drawable state of one editor.
type Scene struct {
	// Bounds is the screen rectangle of the editor container.
	Bounds image.Rectangle

	Gutter *gutter.Gutter
	Layout *layout.Engine

	// Scroll is the offset of the viewport into the document.
	Scroll image.Point

	// Cursor is the cursor holding input focus, or nil.
	Cursor *document.Fragment
}

// Renderer draws scenes.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	screen  *backend.ScreenBuffer
	theme   *style.Theme
	cursor  *cursor.Renderer
	logger  *logging.Logger

	caret      image.Point
	caretShown bool
	frames     uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the theme.
func WithTheme(t *style.Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithCursorConfig sets the cursor drawing configuration.
func WithCursorConfig(c cursor.Config) Option {
	return func(r *Renderer) {
		r.cursor.SetConfig(c)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// New creates a renderer for b sized to b's current size.
func New(b backend.Backend, opts ...Option) *Renderer {
	w, h := b.Size()
	r := &Renderer{
		backend: b,
		screen:  backend.NewScreenBuffer(w, h),
		theme:   style.DefaultTheme(),
		cursor:  cursor.New(cursor.DefaultConfig()),
		logger:  logging.Null(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("renderer")
	r.screen.MarkFullRedraw()
	return r
}

// Theme returns the theme. It may be updated in place with Replace.
func (r *Renderer) Theme() *style.Theme {
	return r.theme
}

// CursorConfig returns the cursor configuration.
func (r *Renderer) CursorConfig() cursor.Config {
	return r.cursor.Config()
}

// SetCursorConfig replaces the cursor configuration.
func (r *Renderer) SetCursorConfig(c cursor.Config) {
	r.cursor.SetConfig(c)
}

// Resize resizes the screen buffer and forces a full redraw.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen.Resize(width, height)
	r.screen.MarkFullRedraw()
}

// Invalidate forces the next frame to resend every cell.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen.MarkFullRedraw()
}

// FrameCount returns the number of frames flushed.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Screen returns the screen buffer. Intended for tests.
func (r *Renderer) Screen() *backend.ScreenBuffer {
	return r.screen
}

// Render draws s and flushes the frame. It returns the number of cells
// sent to the backend.
func (r *Renderer) Render(s Scene, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Clear()
	r.draw(s, now)
	r.applyCaret()
	n := r.screen.Flush(r.backend)
	r.frames++
	return n
}

// BlinkDue reports whether the cursor of s changed blink phase since the
// last frame.
func (r *Renderer) BlinkDue(s Scene, now time.Time) bool {
	if s.Cursor == nil || !s.Cursor.Attached() {
		return false
	}
	return r.cursor.Changed(s.Cursor.Blinking(), now)
}

func (r *Renderer) draw(s Scene, now time.Time) {
	r.caretShown = false
	area := s.Bounds.Intersect(r.screen.Bounds())
	if area.Empty() || s.Layout == nil {
		return
	}

	gw := 0
	if s.Gutter != nil {
		gw = min(s.Gutter.Width(), area.Dx())
	}
	gutterArea := image.Rect(area.Min.X, area.Min.Y, area.Min.X+gw, area.Max.Y)
	content := image.Rect(area.Min.X+gw, area.Min.Y, area.Max.X, area.Max.Y)

	r.screen.Fill(gutterArea, r.blank(style.ClassGutter))
	r.screen.Fill(content, r.blank(style.ClassContent))

	doc := s.Layout.Document()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := y - s.Bounds.Min.Y + s.Scroll.Y
		if gw > 0 {
			r.drawGutterRow(s.Gutter, row, gutterArea.Min.X, y, gw)
		}
		if l := doc.Line(row); l != nil {
			r.drawLine(l, content, y, s.Scroll.X)
		}
	}

	if s.Cursor != nil && s.Cursor.Attached() {
		r.drawCursor(s, content, now)
	}
}

func (r *Renderer) drawGutterRow(g *gutter.Gutter, row, x, y, width int) {
	st := r.theme.Resolve(style.ClassGutter, style.ClassGutterInner)
	text := g.RenderRow(row)
	for i, ch := range []rune(text) {
		if i >= width {
			break
		}
		r.screen.SetCell(x+i, y, core.Cell{Rune: ch, Width: 1, Style: st, Class: style.ClassGutterInner})
	}
}

func (r *Renderer) drawLine(l *document.Line, content image.Rectangle, y, scrollX int) {
	ll := layout.Layout(l)
	for x := content.Min.X; x < content.Max.X; x++ {
		col := x - content.Min.X + scrollX
		if col < 0 || col >= len(ll.Cells) {
			continue
		}
		c := ll.Cells[col]
		switch {
		case c.IsContinuation():
			if x == content.Min.X {
				c = r.blank(style.ClassLine)
			}
		case c.Width == 2 && x+1 >= content.Max.X:
			c = r.blank(c.Class)
		default:
			c.Style = r.theme.Resolve(style.ClassContent, style.ClassContentInner, style.ClassLine, c.Class)
		}
		r.screen.SetCell(x, y, c)
	}
}

func (r *Renderer) drawCursor(s Scene, content image.Rectangle, now time.Time) {
	bounds, ok := s.Layout.FragmentBounds(s.Cursor)
	if !ok {
		return
	}
	p := bounds.Min.Sub(s.Scroll)
	if !p.In(content) {
		return
	}
	blinking := s.Cursor.Blinking()
	if !r.cursor.Visible(blinking, now) {
		return
	}

	classes := []string{style.ClassCursor}
	if blinking {
		classes = append(classes, style.ClassBlink)
	}
	under := r.screen.Cell(p.X, p.Y)
	under.Style = under.Style.Merge(r.theme.Resolve(classes...))

	if r.cursor.Config().Style == cursor.StyleHollow {
		under = r.cursor.CursorCell(under)
	} else {
		r.caret = p
		r.caretShown = true
	}
	r.screen.SetCell(p.X, p.Y, under)
}

func (r *Renderer) applyCaret() {
	if !r.caretShown {
		r.backend.HideCursor()
		return
	}
	r.backend.SetCursorStyle(r.cursor.Config().Style.Backend())
	r.backend.ShowCursor(r.caret.X, r.caret.Y)
}

func (r *Renderer) blank(class string) core.Cell {
	c := core.EmptyCell()
	c.Style = r.theme.Resolve(class)
	c.Class = class
	return c
}
