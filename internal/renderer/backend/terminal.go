package backend

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tinyedit/internal/renderer/core"
)

// Terminal is a Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init initializes the screen and enables mouse, paste and focus
// reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.EnableFocus()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Size returns the screen size.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// SetCell draws a cell. Continuation cells are skipped; tcell draws the
// wide rune across both.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

// Show flushes drawing to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// ShowCursor places the hardware cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

// HideCursor hides the hardware cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// SetCursorStyle sets the hardware cursor shape.
func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch style {
	case CursorUnderline:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	case CursorBar:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	case CursorHidden:
		t.screen.HideCursor()
	default:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	}
}

// PollEvent blocks for the next event.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

// PostEvent injects an event. Key and interrupt events are supported.
func (t *Terminal) PostEvent(ev Event) error {
	var tev tcell.Event
	switch ev.Type {
	case EventKey:
		tev = tcell.NewEventKey(toTcellKey(ev.Key), ev.Rune, toTcellMod(ev.Mod))
	case EventInterrupt:
		tev = tcell.NewEventInterrupt(ev.Data)
	case EventFocus:
		tev = tcell.NewEventFocus(ev.Focused)
	default:
		return fmt.Errorf("post %v: unsupported event type", ev.Type)
	}
	if err := t.screen.PostEvent(tev); err != nil {
		return ErrQueueFull
	}
	return nil
}

// Beep rings the bell.
func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.screen.Beep()
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.Default {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.Default {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	a := s.Attributes
	return style.
		Bold(a.Has(core.AttrBold)).
		Dim(a.Has(core.AttrDim)).
		Underline(a.Has(core.AttrUnderline)).
		Blink(a.Has(core.AttrBlink)).
		Reverse(a.Has(core.AttrReverse))
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e.Key()), Rune: e.Rune(), Mod: convertMod(e.Modifiers())}
	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{Type: EventMouse, MouseX: x, MouseY: y, Button: convertButtons(e.Buttons()), Mod: convertMod(e.Modifiers())}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventPaste:
		return Event{Type: EventPaste, PasteStart: e.Start()}
	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}
	default:
		return Event{Type: EventNone}
	}
}

func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyCtrlC:
		return KeyCtrlC
	case tcell.KeyCtrlQ:
		return KeyCtrlQ
	default:
		return KeyNone
	}
}

func toTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyDelete:
		return tcell.KeyDelete
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	case KeyHome:
		return tcell.KeyHome
	case KeyEnd:
		return tcell.KeyEnd
	case KeyCtrlC:
		return tcell.KeyCtrlC
	case KeyCtrlQ:
		return tcell.KeyCtrlQ
	default:
		return tcell.KeyRune
	}
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	return out
}

func toTcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	if m.Has(ModShift) {
		out |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		out |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		out |= tcell.ModAlt
	}
	return out
}

func convertButtons(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button3 != 0:
		return MouseMiddle
	case b&tcell.Button2 != 0:
		return MouseRight
	default:
		return MouseNone
	}
}
