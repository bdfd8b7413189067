// Package app wires an editor, its renderer and the terminal backend
// together and runs the event loop that drives them.
//
// All editor state is touched from the loop goroutine only. Work that
// originates elsewhere (blink timers, config reloads) is posted to the
// loop as backend interrupt events.
package app

import (
	"image"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/tinyedit/internal/config"
	"github.com/dshills/tinyedit/internal/editor"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/plugin/lua"
	"github.com/dshills/tinyedit/internal/renderer"
	"github.com/dshills/tinyedit/internal/renderer/backend"
)

// DefaultBlinkCheck is how often the loop checks whether the cursor
// changed blink phase.
const DefaultBlinkCheck = 50 * time.Millisecond

// Options configures the application.
type Options struct {
	// Config is the resolved configuration.
	Config config.Config

	// ConfigPath is the file Config was loaded from. When set and Watch
	// is true, changes to the file are applied live.
	ConfigPath string
	Watch      bool

	// Overrides is applied to every reloaded Config, so settings given on
	// the command line keep precedence over the file.
	Overrides func(*config.Config)

	// Text is the initial document.
	Text string

	// Textarea, when set, supplies the initial document instead of Text.
	Textarea editor.TextSource

	// Backend is the terminal to draw on.
	Backend backend.Backend

	Logger *logging.Logger

	// BlinkCheck overrides DefaultBlinkCheck.
	BlinkCheck time.Duration
}

// Application owns one editor mounted on the whole terminal.
type Application struct {
	mu sync.RWMutex

	opts   Options
	cfg    config.Config
	logger *logging.Logger

	backend  backend.Backend
	renderer *renderer.Renderer
	sched    *loopScheduler
	registry *editor.Registry
	pane     *editor.Pane
	editor   *editor.Editor
	hooks    *lua.Hooks
	watcher  *config.Watcher

	input inputState

	started  bool
	closed   bool
	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New creates an application. The backend is not initialized until Start.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: ErrNoBackend}
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	if opts.BlinkCheck <= 0 {
		opts.BlinkCheck = DefaultBlinkCheck
	}

	app := &Application{
		opts:    opts,
		cfg:     opts.Config,
		logger:  opts.Logger.WithComponent("app"),
		backend: opts.Backend,
		done:    make(chan struct{}),
	}
	app.sched = newLoopScheduler(opts.Backend, app.logger)
	app.registry = editor.NewRegistry(opts.Logger)
	return app, nil
}

// Start initializes the backend, loads hook scripts, mounts the editor
// and starts the config watcher. Run calls it when needed.
func (app *Application) Start() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.started {
		return nil
	}

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}

	theme, err := app.cfg.ThemeStyles()
	if err != nil {
		app.backend.Shutdown()
		return &InitError{Component: "theme", Err: err}
	}
	app.renderer = renderer.New(app.backend,
		renderer.WithTheme(theme),
		renderer.WithCursorConfig(app.cfg.CursorRendering()),
		renderer.WithLogger(app.opts.Logger),
	)

	// A broken hook script must not keep the editor from starting.
	if path := app.cfg.Plugins.Script; path != "" {
		hooks, err := lua.LoadHooks(path, app.opts.Logger)
		if err != nil {
			app.logger.Warn("%v", NewComponentError("hooks", "load", err))
		} else {
			app.hooks = hooks
		}
	}

	w, h := app.backend.Size()
	app.pane = editor.NewPane(app.opts.Text, image.Rect(0, 0, w, h))
	ed, err := app.registry.Mount(app.pane, app.editorOptions())
	if err != nil {
		app.closeHooks()
		app.backend.Shutdown()
		return &InitError{Component: "editor", Err: err}
	}
	app.editor = ed

	if app.opts.Watch && app.opts.ConfigPath != "" {
		app.startWatcher()
	}

	app.started = true
	app.logger.Info("started %dx%d, %d lines", w, h, ed.Document().LineCount())
	return nil
}

func (app *Application) editorOptions() editor.Options {
	cfg := app.cfg
	opts := editor.Options{
		TabWidth:        cfg.Editor.TabWidth,
		TabStyle:        cfg.TabStyle(),
		Textarea:        app.opts.Textarea,
		FirstLineNumber: editor.LineNumber(cfg.Editor.FirstLineNumber),
		LineBreak:       cfg.Editor.LineBreak,
		ReadOnly:        !cfg.Editor.Editable,
		GutterMinWidth:  cfg.Gutter.MinWidth,
		ResetDelay:      cfg.Cursor.ResetDelay.Std(),
		Scheduler:       app.sched,
		Logger:          app.opts.Logger,
	}
	if app.hooks != nil {
		opts.Hooks = app.hooks.EditorHooks()
	}
	return opts
}

func (app *Application) startWatcher() {
	w, err := config.Watch(app.opts.ConfigPath,
		func(cfg config.Config) { app.post(func() { app.reload(cfg) }) },
		config.WithLoader(app.loadConfig),
		config.WithWatchLogger(app.opts.Logger),
		config.WithErrorHandler(func(err error) {
			app.logger.Warn("%v", NewOperationError("reload", app.opts.ConfigPath, err))
		}),
	)
	if err != nil {
		app.logger.Warn("%v", NewComponentError("config", "watch", err))
		return
	}
	app.watcher = w
}

// loadConfig rebuilds the configuration from path and the environment,
// then reapplies the overrides on top.
func (app *Application) loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if err := config.LoadFile(&cfg, path); err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if app.opts.Overrides != nil {
		app.opts.Overrides(&cfg)
	}
	return cfg, cfg.Validate()
}

// Run starts the application if needed and processes events until a
// quit key is pressed or Shutdown is called.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.Start(); err != nil {
		return err
	}
	defer app.Close()

	return app.eventLoop()
}

// Shutdown stops a running event loop. It is safe to call from any
// goroutine and more than once.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() { close(app.done) })
}

// Close releases everything Start acquired. Run calls it on exit.
func (app *Application) Close() {
	app.mu.Lock()
	if !app.started || app.closed {
		app.mu.Unlock()
		return
	}
	app.closed = true
	app.mu.Unlock()

	app.Shutdown()
	app.running.Store(false)
	app.sched.close()
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("close watcher: %v", err)
		}
	}
	app.registry.Close()
	app.closeHooks()
	app.backend.Shutdown()
	app.logger.Info("stopped after %d frames", app.renderer.FrameCount())
}

func (app *Application) closeHooks() {
	if app.hooks == nil {
		return
	}
	if err := app.hooks.Close(); err != nil {
		app.logger.Warn("close hooks: %v", err)
	}
	app.hooks = nil
}

// post runs fn on the loop goroutine.
func (app *Application) post(fn func()) {
	app.sched.post(fn)
}

// IsRunning reports whether the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Editor returns the mounted editor, or nil before Start.
func (app *Application) Editor() *editor.Editor {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.editor
}

// Renderer returns the renderer, or nil before Start.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}

// Config returns the configuration currently applied.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Value returns the serialized document, or the initial text before
// Start.
func (app *Application) Value() string {
	if ed := app.Editor(); ed != nil {
		return ed.Value()
	}
	return app.opts.Text
}
