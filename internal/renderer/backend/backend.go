// Package backend abstracts the terminal the editor draws on and reads
// input events from.
package backend

import (
	"errors"
	"image"

	"github.com/dshills/tinyedit/internal/renderer/core"
)

// ErrQueueFull is returned when an event cannot be posted.
var ErrQueueFull = errors.New("event queue full")

// CursorStyle selects the hardware cursor shape.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// EventType identifies the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventFocus
	// EventInterrupt carries a value posted with PostEvent; the event loop
	// uses it to run callbacks on its own goroutine.
	EventInterrupt
)

// Event is a terminal event.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	MouseX, MouseY int
	Button         MouseButton

	Width, Height int

	Focused bool

	// PasteStart is true at the start of a bracketed paste and false at its
	// end. Runes in between arrive as key events.
	PasteStart bool

	Data any
}

// Point returns the mouse position.
func (e Event) Point() image.Point {
	return image.Pt(e.MouseX, e.MouseY)
}

// Key is a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlQ
)

// ModMask is a set of modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m contains mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is the button state of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend is a drawing surface with an event source.
type Backend interface {
	Init() error
	Shutdown()
	Size() (width, height int)
	SetCell(x, y int, cell core.Cell)
	Show()
	ShowCursor(x, y int)
	HideCursor()
	SetCursorStyle(style CursorStyle)
	// PollEvent blocks for the next event. It returns EventNone after
	// Shutdown.
	PollEvent() Event
	PostEvent(ev Event) error
	Beep()
}

// NullBackend is an in-memory Backend for tests.
type NullBackend struct {
	width, height int
	cells         []core.Cell
	cursor        image.Point
	cursorVisible bool
	cursorStyle   CursorStyle
	shows         int
	events        chan Event
}

// NewNullBackend creates a null backend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{width: width, height: height, events: make(chan Event, 128)}
	b.reset()
	return b
}

func (b *NullBackend) reset() {
	b.cells = make([]core.Cell, b.width*b.height)
	for i := range b.cells {
		b.cells[i] = core.EmptyCell()
	}
}

func (b *NullBackend) Init() error      { return nil }
func (b *NullBackend) Shutdown()        { _ = b.PostEvent(Event{Type: EventNone}) }
func (b *NullBackend) Size() (int, int) { return b.width, b.height }
func (b *NullBackend) Show()            { b.shows++ }
func (b *NullBackend) HideCursor()      { b.cursorVisible = false }
func (b *NullBackend) Beep()            {}
func (b *NullBackend) PollEvent() Event { return <-b.events }

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursor = image.Pt(x, y)
	b.cursorVisible = true
}

func (b *NullBackend) SetCursorStyle(style CursorStyle) {
	b.cursorStyle = style
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y*b.width+x] = cell
	}
}

// PostEvent queues ev without blocking.
func (b *NullBackend) PostEvent(ev Event) error {
	select {
	case b.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Cell returns the cell at (x, y).
func (b *NullBackend) Cell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y*b.width+x]
	}
	return core.EmptyCell()
}

// Row returns the runes of row y, continuation cells skipped.
func (b *NullBackend) Row(y int) string {
	var rs []rune
	for x := 0; x < b.width; x++ {
		c := b.Cell(x, y)
		if c.IsContinuation() {
			continue
		}
		rs = append(rs, c.Rune)
	}
	return string(rs)
}

// Cursor returns the hardware cursor state.
func (b *NullBackend) Cursor() (p image.Point, visible bool) {
	return b.cursor, b.cursorVisible
}

// CursorStyle returns the hardware cursor shape.
func (b *NullBackend) CursorStyle() CursorStyle {
	return b.cursorStyle
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	return b.shows
}

// Resize changes the size and queues a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = width, height
	b.reset()
	_ = b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
