package app

import (
	"strings"

	"github.com/dshills/tinyedit/internal/editor"
	"github.com/dshills/tinyedit/internal/renderer/backend"
)

// inputState tracks input that spans several backend events.
type inputState struct {
	// pasting is true between the start and end of a bracketed paste.
	pasting bool
	paste   strings.Builder

	// button is the button held at the previous mouse event. tcell reports
	// button state rather than transitions.
	button backend.MouseButton
}

func (app *Application) handleKey(ev backend.Event) error {
	if ev.Key == backend.KeyCtrlQ || ev.Key == backend.KeyCtrlC {
		return ErrQuit
	}
	if app.input.pasting {
		app.bufferPaste(ev)
		return nil
	}

	kev, ok := convertKey(ev)
	if !ok {
		return nil
	}
	if !app.editor.HandleKey(kev) {
		app.logger.Debug("unhandled key %s", kev.Key)
	}
	return nil
}

// convertKey maps a backend key event to an editor key. Keys with Ctrl or
// Alt held are not text input.
func convertKey(ev backend.Event) (editor.KeyEvent, bool) {
	switch ev.Key {
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return editor.KeyEvent{}, false
		}
		return editor.KeyEvent{Key: editor.KeyRune, Rune: ev.Rune}, true
	case backend.KeyBackspace:
		return editor.KeyEvent{Key: editor.KeyBackspace}, true
	case backend.KeyDelete:
		return editor.KeyEvent{Key: editor.KeyDelete}, true
	case backend.KeyTab:
		return editor.KeyEvent{Key: editor.KeyTab}, true
	case backend.KeyEnter:
		return editor.KeyEvent{Key: editor.KeyEnter}, true
	case backend.KeyEscape:
		return editor.KeyEvent{Key: editor.KeyEscape}, true
	case backend.KeyLeft:
		return editor.KeyEvent{Key: editor.KeyLeft}, true
	case backend.KeyRight:
		return editor.KeyEvent{Key: editor.KeyRight}, true
	case backend.KeyUp:
		return editor.KeyEvent{Key: editor.KeyUp}, true
	case backend.KeyDown:
		return editor.KeyEvent{Key: editor.KeyDown}, true
	default:
		return editor.KeyEvent{}, false
	}
}

func (app *Application) bufferPaste(ev backend.Event) {
	switch ev.Key {
	case backend.KeyRune:
		app.input.paste.WriteRune(ev.Rune)
	case backend.KeyTab:
		app.input.paste.WriteByte('\t')
	case backend.KeyEnter:
		app.input.paste.WriteByte('\n')
	}
}

func (app *Application) handlePaste(ev backend.Event) {
	if ev.PasteStart {
		app.input.pasting = true
		app.input.paste.Reset()
		return
	}
	if !app.input.pasting {
		return
	}
	app.input.pasting = false
	text := app.input.paste.String()
	app.input.paste.Reset()
	if text != "" && !app.editor.HandlePaste(text) {
		app.logger.Debug("paste of %d bytes dropped: no cursor", len(text))
	}
}

// handleMouse turns button transitions into pointer-down events and wheel
// motion into scrolling.
func (app *Application) handleMouse(ev backend.Event) {
	prev := app.input.button
	app.input.button = ev.Button

	switch ev.Button {
	case backend.MouseLeft:
		if prev != backend.MouseLeft {
			app.editor.HandlePointerDown(ev.Point())
		}
	case backend.MouseWheelUp:
		if ev.Mod.Has(backend.ModShift) {
			app.editor.ScrollBy(-1, 0)
		} else {
			app.editor.ScrollBy(0, -1)
		}
	case backend.MouseWheelDown:
		if ev.Mod.Has(backend.ModShift) {
			app.editor.ScrollBy(1, 0)
		} else {
			app.editor.ScrollBy(0, 1)
		}
	}
}
