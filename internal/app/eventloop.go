package app

import (
	"errors"
	"image"
	"runtime/debug"
	"time"

	"github.com/dshills/tinyedit/internal/config"
	"github.com/dshills/tinyedit/internal/renderer/backend"
)

// eventLoop renders the first frame and then handles input, interrupts
// and blink checks until quit.
func (app *Application) eventLoop() error {
	events := app.startInputPolling()

	ticker := time.NewTicker(app.opts.BlinkCheck)
	defer ticker.Stop()

	app.render()
	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.HandleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			app.render()

		case now := <-ticker.C:
			if app.renderer.BlinkDue(app.editor.Scene(), now) {
				app.render()
			}
		}
	}
}

// startInputPolling forwards backend events to the returned channel. The
// goroutine exits after Shutdown unblocks PollEvent.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)
	go func() {
		defer close(events)
		for app.running.Load() {
			ev := app.backend.PollEvent()
			if !app.running.Load() {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return events
}

func (app *Application) render() {
	app.renderer.Render(app.editor.Scene(), time.Now())
}

// HandleEvent routes one backend event. It returns ErrQuit when the
// application should exit. Panics in handlers are logged and absorbed.
func (app *Application) HandleEvent(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			app.logger.Error("%v", NewRecoveredPanicError(r, string(debug.Stack())))
			err = nil
		}
	}()

	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventPaste:
		app.handlePaste(ev)
	case backend.EventResize:
		app.handleResize(ev)
	case backend.EventFocus:
		app.editor.HandleFocus(ev.Focused)
	case backend.EventInterrupt:
		if fn, ok := ev.Data.(func()); ok {
			fn()
		}
	}
	return nil
}

func (app *Application) handleResize(ev backend.Event) {
	app.pane.SetBounds(image.Rect(0, 0, ev.Width, ev.Height))
	app.editor.Relayout()
	app.renderer.Resize(ev.Width, ev.Height)
	app.logger.Debug("resized to %dx%d", ev.Width, ev.Height)
}

// reload applies a configuration read from disk.
func (app *Application) reload(cfg config.Config) {
	if err := app.ApplyConfig(cfg); err != nil {
		app.logger.Warn("%v", NewOperationError("apply", app.opts.ConfigPath, err))
	}
}

// ApplyConfig applies cfg to the running editor and renderer. It must be
// called on the loop goroutine or before Run.
func (app *Application) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	theme, err := cfg.ThemeStyles()
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.opts.Logger.SetLevel(cfg.LogLevel())
	if app.renderer != nil {
		app.renderer.Theme().Replace(theme)
		app.renderer.SetCursorConfig(cfg.CursorRendering())
		app.renderer.Invalidate()
	}
	if ed := app.editor; ed != nil {
		ed.SetTabWidth(cfg.Editor.TabWidth)
		ed.SetFirstLineNumber(cfg.Editor.FirstLineNumber)
		ed.SetTabStyle(cfg.TabStyle())
		ed.SetLineBreak(cfg.Editor.LineBreak)
		ed.SetReadOnly(!cfg.Editor.Editable)
		ed.SetResetDelay(cfg.Cursor.ResetDelay.Std())
	}
	app.logger.Info("configuration applied")
	return nil
}
