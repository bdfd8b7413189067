package editor

import (
	"errors"
	"image"
	"time"

	"github.com/dshills/tinyedit/internal/engine/caret"
	"github.com/dshills/tinyedit/internal/engine/cursor"
	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/engine/edit"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer"
	"github.com/dshills/tinyedit/internal/renderer/core"
	"github.com/dshills/tinyedit/internal/renderer/gutter"
	"github.com/dshills/tinyedit/internal/renderer/layout"
	"github.com/dshills/tinyedit/internal/renderer/viewport"
)

// Editor is one mounted editor instance.
type Editor struct {
	id   string
	host Host
	opts Options

	doc        *document.Document
	cursors    *cursor.Manager
	edit       *edit.Engine
	layout     *layout.Engine
	locator    *caret.Locator
	gutter     *gutter.Gutter
	translator core.Translator
	view       *viewport.Viewport

	logger *logging.Logger
	closed bool
}

func newEditor(id string, host Host, opts Options) *Editor {
	opts = opts.normalized()
	e := &Editor{
		id:     id,
		host:   host,
		opts:   opts,
		logger: opts.Logger.WithComponent("editor").WithField("id", id),
	}

	text := host.Text()
	if opts.Textarea != nil {
		text = opts.Textarea.Value()
		opts.Textarea.Hide()
	}
	e.doc = document.Parse(text, opts.TabWidth)

	cursorOpts := []cursor.Option{cursor.WithResetDelay(opts.ResetDelay), cursor.WithLogger(opts.Logger)}
	if opts.Scheduler != nil {
		cursorOpts = append(cursorOpts, cursor.WithScheduler(opts.Scheduler))
	}
	e.cursors = cursor.New(cursorOpts...)
	e.edit = edit.New(e.cursors, edit.WithTabWidth(opts.TabWidth), edit.WithLogger(opts.Logger))
	e.gutter = gutter.New(gutter.Config{FirstLineNumber: *opts.FirstLineNumber, MinWidth: opts.GutterMinWidth})
	e.layout = layout.New(e.doc, image.Point{})
	e.locator = caret.New(e.layout, caret.WithLogger(opts.Logger))
	e.translator = core.NewTranslator(e)
	e.view = viewport.New(0, 0)
	e.sync()

	e.logger.Debug("mounted with %d lines", e.doc.LineCount())
	return e
}

// ID returns the mount marker of the editor.
func (e *Editor) ID() string {
	return e.id
}

// Host returns the host the editor is mounted on.
func (e *Editor) Host() Host {
	return e.host
}

// Options returns the active options.
func (e *Editor) Options() Options {
	return e.opts
}

// Document returns the document model.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Cursors returns the cursor manager.
func (e *Editor) Cursors() *cursor.Manager {
	return e.cursors
}

// Gutter returns the gutter.
func (e *Editor) Gutter() *gutter.Gutter {
	return e.gutter
}

// Layout returns the layout engine.
func (e *Editor) Layout() *layout.Engine {
	return e.layout
}

// ScrollOffset implements core.ScrollSource.
func (e *Editor) ScrollOffset() image.Point {
	return e.view.Offset()
}

// Viewport returns the visible window into the document.
func (e *Editor) Viewport() *viewport.Viewport {
	return e.view
}

// Translator returns the coordinate translator for this editor.
func (e *Editor) Translator() core.Translator {
	return e.translator
}

// Value serializes the document. An optional override replaces individual
// formatting settings.
func (e *Editor) Value(override ...ValueOptions) string {
	format := document.Format{
		TabStyle:  e.opts.TabStyle,
		TabWidth:  e.opts.TabWidth,
		LineBreak: e.opts.LineBreak,
	}
	for _, o := range override {
		if o.TabWidth > 0 {
			format.TabWidth = o.TabWidth
		}
		if o.TabStyle != document.TabUnset {
			format.TabStyle = o.TabStyle
		}
		if o.LineBreak != "" {
			format.LineBreak = o.LineBreak
		}
	}
	return e.doc.Serialize(format)
}

// Scene returns the drawable state of the editor.
func (e *Editor) Scene() renderer.Scene {
	return renderer.Scene{
		Bounds: e.host.Bounds(),
		Gutter: e.gutter,
		Layout: e.layout,
		Scroll: e.view.Offset(),
		Cursor: e.cursors.Focused(),
	}
}

// Relayout picks up a change of host bounds.
func (e *Editor) Relayout() {
	e.sync()
}

// HandlePointerDown places a cursor at the viewport point p. It reports
// whether a cursor was placed. Gutter clicks go to the gutter hook. A
// read-only editor ignores pointer input entirely.
func (e *Editor) HandlePointerDown(p image.Point) bool {
	if e.closed || e.opts.ReadOnly {
		return false
	}
	hit := e.HitTest(p)
	e.logger.WithFields(map[string]any{"region": hit.Region, "target": hit.Target}).Debug("pointer down at %v", p)

	switch hit.Region {
	case RegionGutter:
		if n, ok := e.gutter.Row(hit.Row); ok && e.opts.Hooks.GutterClick != nil {
			e.opts.Hooks.GutterClick(e, n)
		}
		return false
	case RegionContent:
	default:
		return false
	}
	if hit.Target == TargetOutside {
		return false
	}

	e.cursors.RemoveAll()
	pos, err := e.locator.Locate(hit.Line, hit.Point.X, hit.Point.Y)
	if err != nil {
		e.logger.Debug("locate failed: %v", err)
		return false
	}
	pos = caret.SnapTab(e.layout, pos, hit.Point.X)

	c := e.cursors.Create()
	if _, err := hit.Line.InsertAtPosition(pos, c); err != nil {
		e.logger.Warn("insert cursor: %v", err)
		e.cursors.Remove(c)
		return false
	}
	e.cursors.ActivateForInput(c)
	return true
}

// PlaceCursor places a cursor at character offset n of line row, as a
// click on that position would.
func (e *Editor) PlaceCursor(row, n int) error {
	l := e.doc.Line(row)
	if l == nil {
		return document.ErrOffsetOutOfRange
	}
	e.cursors.RemoveAll()
	pos, err := l.FragmentAtOffset(n)
	if err != nil {
		return err
	}
	c := e.cursors.Create()
	if _, err := l.InsertAtPosition(pos, c); err != nil {
		e.cursors.Remove(c)
		return err
	}
	e.cursors.ActivateForInput(c)
	return nil
}

// HandleKey applies a key to the focused cursor. It reports whether the
// key was consumed.
func (e *Editor) HandleKey(ev KeyEvent) bool {
	if e.closed {
		return false
	}
	if ev.Key == KeyEscape {
		if e.opts.Hooks.Abort != nil {
			e.opts.Hooks.Abort(e)
		}
		return true
	}

	c := e.cursors.Focused()
	if c == nil {
		return false
	}

	var err error
	switch ev.Key {
	case KeyRune:
		err = e.edit.InsertCharacter(c, string(ev.Rune))
	case KeyBackspace:
		_, err = e.edit.DeleteCharacter(c, edit.Backward)
	case KeyDelete:
		_, err = e.edit.DeleteCharacter(c, edit.Forward)
	case KeyTab:
		err = e.edit.InsertTab(c)
	case KeyLeft:
		_, err = e.edit.MoveHorizontal(c, edit.Backward)
	case KeyRight:
		_, err = e.edit.MoveHorizontal(c, edit.Forward)
	case KeyEnter:
		return true
	default:
		return false
	}
	e.afterEdit(ev.Key.String(), err)
	return true
}

// HandlePaste inserts text at the focused cursor.
func (e *Editor) HandlePaste(text string) bool {
	c := e.cursors.Focused()
	if e.closed || c == nil {
		return false
	}
	e.afterEdit("paste", e.edit.InsertText(c, text))
	return true
}

// HandleFocus reacts to the terminal gaining or losing focus. Losing focus
// blurs the input proxy, which removes its cursor.
func (e *Editor) HandleFocus(focused bool) {
	if focused {
		return
	}
	if in := e.cursors.Input(); in != nil {
		in.Blur()
	}
}

// ScrollBy moves the viewport, clamped to the document.
func (e *Editor) ScrollBy(dx, dy int) {
	e.view.ScrollBy(dx, dy)
}

// ScrollTo sets the viewport offset, clamped to the document.
func (e *Editor) ScrollTo(p image.Point) {
	e.view.ScrollTo(p)
}

// SetTabWidth changes the width of tabs inserted from now on and of soft
// tabs on serialization.
func (e *Editor) SetTabWidth(width int) {
	if width < 1 {
		return
	}
	e.opts.TabWidth = width
	e.edit.SetTabWidth(width)
}

// SetFirstLineNumber renumbers the gutter.
func (e *Editor) SetFirstLineNumber(n int) {
	e.opts.FirstLineNumber = LineNumber(n)
	cfg := e.gutter.Config()
	cfg.FirstLineNumber = n
	e.gutter.SetConfig(cfg)
	e.sync()
}

// SetReadOnly enables or disables pointer input.
func (e *Editor) SetReadOnly(on bool) {
	e.opts.ReadOnly = on
}

// SetTabStyle changes how tabs serialize.
func (e *Editor) SetTabStyle(style document.TabStyle) {
	if style == document.TabUnset {
		return
	}
	e.opts.TabStyle = style
}

// SetLineBreak changes the string that joins lines on serialization.
func (e *Editor) SetLineBreak(lb string) {
	if lb == "" {
		return
	}
	e.opts.LineBreak = lb
}

// SetResetDelay changes how long cursors stay solid after an edit.
func (e *Editor) SetResetDelay(d time.Duration) {
	e.opts.ResetDelay = d
	e.cursors.SetResetDelay(d)
}

// Close removes every cursor and cancels pending work.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.cursors.Close()
}

func (e *Editor) afterEdit(op string, err error) {
	if err != nil {
		if errors.Is(err, edit.ErrDetached) {
			e.logger.Debug("%s on detached cursor", op)
		} else {
			e.logger.Warn("%s: %v", op, err)
		}
	}
	e.sync()
	e.reveal()
}

// reveal scrolls the focused cursor into view.
func (e *Editor) reveal() {
	c := e.cursors.Focused()
	if c == nil {
		return
	}
	r, ok := e.layout.FragmentBounds(c)
	if !ok {
		return
	}
	row := e.doc.IndexOf(c.Line())
	col := r.Min.X - e.layout.Origin().X
	if e.view.ScrollToReveal(row, col) {
		e.logger.Debug("scrolled to %v", e.view.Offset())
	}
}

// sync keeps the gutter row count equal to the line count, the content
// origin to the right of the gutter and the viewport sized to the content.
func (e *Editor) sync() {
	if added, removed := e.gutter.Update(e.doc.LineCount()); added+removed > 0 {
		e.logger.Debug("gutter +%d -%d", added, removed)
	}
	b := e.host.Bounds()
	gw := e.gutter.Width()
	e.layout.SetOrigin(image.Pt(b.Min.X+gw, b.Min.Y))
	e.layout.SetWidth(b.Dx() - gw)

	widest := 0
	for _, l := range e.doc.Lines() {
		_, end := layout.Columns(l)
		widest = max(widest, end)
	}
	e.view.Resize(b.Dx()-gw, b.Dy())
	e.view.SetContentSize(e.doc.LineCount(), widest)
}
