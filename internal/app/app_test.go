package app

import (
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/tinyedit/internal/config"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer/backend"
	"github.com/dshills/tinyedit/internal/renderer/cursor"
)

func newTestApp(t *testing.T, text string, edit ...func(*Options)) (*Application, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(20, 5)
	opts := Options{Config: config.Default(), Text: text, Backend: b}
	for _, fn := range edit {
		fn(&opts)
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return app, b
}

func startTestApp(t *testing.T, text string, edit ...func(*Options)) (*Application, *backend.NullBackend) {
	t.Helper()
	app, b := newTestApp(t, text, edit...)
	if err := app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app, b
}

func send(t *testing.T, app *Application, events ...backend.Event) {
	t.Helper()
	for _, ev := range events {
		if err := app.HandleEvent(ev); err != nil {
			t.Fatalf("HandleEvent(%+v) error = %v", ev, err)
		}
	}
}

func click(x, y int) []backend.Event {
	return []backend.Event{
		{Type: backend.EventMouse, MouseX: x, MouseY: y, Button: backend.MouseLeft},
		{Type: backend.EventMouse, MouseX: x, MouseY: y, Button: backend.MouseNone},
	}
}

func key(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

// pollWithin returns the next backend event or fails after d.
func pollWithin(t *testing.T, b *backend.NullBackend, d time.Duration) backend.Event {
	t.Helper()
	ch := make(chan backend.Event, 1)
	go func() { ch <- b.PollEvent() }()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(d):
		t.Fatal("no backend event")
		return backend.Event{}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Options{Config: config.Default()}); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}

	cfg := config.Default()
	cfg.Editor.TabWidth = 0
	_, err := New(Options{Config: cfg, Backend: backend.NewNullBackend(10, 2)})
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "config" {
		t.Errorf("expected InitError for config, got %v", err)
	}
}

func TestValueBeforeStart(t *testing.T) {
	app, _ := newTestApp(t, "abc")
	if app.Editor() != nil {
		t.Error("expected no editor before Start")
	}
	if got := app.Value(); got != "abc" {
		t.Errorf("expected 'abc', got %q", got)
	}
}

func TestClickAndType(t *testing.T) {
	app, _ := startTestApp(t, "abc")

	// The gutter is four columns wide, so x=5 is between 'a' and 'b'.
	send(t, app, click(5, 0)...)
	send(t, app, key('X'))

	if got := app.Value(); got != "aXbc" {
		t.Errorf("expected 'aXbc', got %q", got)
	}
}

func TestHeldButtonIsNotAClick(t *testing.T) {
	app, _ := startTestApp(t, "abc")

	send(t, app,
		backend.Event{Type: backend.EventMouse, MouseX: 5, MouseY: 0, Button: backend.MouseLeft},
		key('X'),
		backend.Event{Type: backend.EventMouse, MouseX: 8, MouseY: 0, Button: backend.MouseLeft},
		key('Z'),
		backend.Event{Type: backend.EventMouse, MouseX: 8, MouseY: 0, Button: backend.MouseNone},
	)
	send(t, app, click(4, 0)...)
	send(t, app, key('Y'))

	if got := app.Value(); got != "YaXZbc" {
		t.Errorf("expected 'YaXZbc', got %q", got)
	}
}

func TestEditingKeys(t *testing.T) {
	app, _ := startTestApp(t, "abc")
	send(t, app, click(6, 0)...)
	send(t, app,
		backend.Event{Type: backend.EventKey, Key: backend.KeyBackspace},
		backend.Event{Type: backend.EventKey, Key: backend.KeyTab},
		backend.Event{Type: backend.EventKey, Key: backend.KeyLeft},
		backend.Event{Type: backend.EventKey, Key: backend.KeyDelete},
		backend.Event{Type: backend.EventKey, Key: backend.KeyEnter},
		backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q', Mod: backend.ModCtrl},
	)
	if got := app.Value(); got != "ac" {
		t.Errorf("expected 'ac', got %q", got)
	}
}

func TestQuitKeys(t *testing.T) {
	app, _ := startTestApp(t, "")
	for _, k := range []backend.Key{backend.KeyCtrlQ, backend.KeyCtrlC} {
		if err := app.HandleEvent(backend.Event{Type: backend.EventKey, Key: k}); !errors.Is(err, ErrQuit) {
			t.Errorf("key %v: expected ErrQuit, got %v", k, err)
		}
	}
}

func TestBracketedPaste(t *testing.T) {
	app, _ := startTestApp(t, "abc")
	send(t, app, click(5, 0)...)
	send(t, app,
		backend.Event{Type: backend.EventPaste, PasteStart: true},
		key('p'), key('q'),
		backend.Event{Type: backend.EventKey, Key: backend.KeyTab},
		backend.Event{Type: backend.EventKey, Key: backend.KeyEnter},
		key('r'),
		backend.Event{Type: backend.EventPaste, PasteStart: false},
	)
	if got := app.Value(); got != "apq\trbc" {
		t.Errorf("expected 'apq\\trbc', got %q", got)
	}
}

func TestFocusLossRemovesCursor(t *testing.T) {
	app, _ := startTestApp(t, "abc")
	send(t, app, click(5, 0)...)
	if app.Editor().Cursors().Len() != 1 {
		t.Fatalf("expected 1 cursor, got %d", app.Editor().Cursors().Len())
	}
	send(t, app, backend.Event{Type: backend.EventFocus, Focused: false})
	if app.Editor().Cursors().Len() != 0 {
		t.Errorf("expected no cursor after focus loss, got %d", app.Editor().Cursors().Len())
	}
	if got := app.Value(); got != "abc" {
		t.Errorf("expected 'abc', got %q", got)
	}
}

func TestWheelScrolls(t *testing.T) {
	app, _ := startTestApp(t, "a\nb\nc")
	send(t, app, backend.Event{Type: backend.EventMouse, Button: backend.MouseWheelDown})
	send(t, app, backend.Event{Type: backend.EventMouse, Button: backend.MouseWheelDown})
	if got := app.Editor().ScrollOffset(); got != image.Pt(0, 2) {
		t.Errorf("expected scroll (0,2), got %v", got)
	}
	send(t, app, backend.Event{Type: backend.EventMouse, Button: backend.MouseWheelUp})
	if got := app.Editor().ScrollOffset(); got != image.Pt(0, 1) {
		t.Errorf("expected scroll (0,1), got %v", got)
	}
}

func TestResize(t *testing.T) {
	app, _ := startTestApp(t, "abc")
	send(t, app, backend.Event{Type: backend.EventResize, Width: 30, Height: 6})

	want := image.Rect(0, 0, 30, 6)
	if got := app.Editor().Host().Bounds(); got != want {
		t.Errorf("expected host bounds %v, got %v", want, got)
	}
	if got := app.Renderer().Screen().Bounds(); got != want {
		t.Errorf("expected screen bounds %v, got %v", want, got)
	}
}

func TestInterruptRunsCallback(t *testing.T) {
	app, _ := startTestApp(t, "")
	called := false
	send(t, app, backend.Event{Type: backend.EventInterrupt, Data: func() { called = true }})
	if !called {
		t.Error("expected interrupt callback to run")
	}
	send(t, app, backend.Event{Type: backend.EventInterrupt, Data: "not a func"})
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	app, _ := startTestApp(t, "")
	err := app.HandleEvent(backend.Event{Type: backend.EventInterrupt, Data: func() { panic("boom") }})
	if err != nil {
		t.Errorf("expected panic to be absorbed, got %v", err)
	}
}

func TestApplyConfig(t *testing.T) {
	app, _ := startTestApp(t, "a\tb")

	cfg := config.Default()
	cfg.Editor.TabWidth = 2
	cfg.Editor.FirstLineNumber = 10
	cfg.Editor.Editable = false
	cfg.Cursor.Style = "bar"
	cfg.Logging.Level = "debug"
	if err := app.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}

	if n, _ := app.Editor().Gutter().Row(0); n != 10 {
		t.Errorf("expected first gutter row 10, got %d", n)
	}
	if app.Editor().Options().TabWidth != 2 {
		t.Errorf("expected tab width 2, got %d", app.Editor().Options().TabWidth)
	}
	if app.Renderer().CursorConfig().Style != cursor.StyleBar {
		t.Errorf("expected bar cursor, got %v", app.Renderer().CursorConfig().Style)
	}
	if app.Config().Editor.TabWidth != 2 {
		t.Error("expected Config() to return the applied configuration")
	}

	send(t, app, click(5, 0)...)
	if app.Editor().Cursors().Len() != 0 {
		t.Error("expected clicks to be ignored once read-only")
	}

	bad := config.Default()
	bad.Editor.LineBreak = ""
	if err := app.ApplyConfig(bad); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

func TestApplyConfigSetsLogLevel(t *testing.T) {
	logger := logging.New(logging.Config{Level: logging.LevelInfo, Output: io.Discard})
	app, _ := startTestApp(t, "", func(o *Options) { o.Logger = logger })

	cfg := config.Default()
	cfg.Logging.Level = "error"
	if err := app.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}
	if logger.Level() != logging.LevelError {
		t.Errorf("expected level error, got %v", logger.Level())
	}
}

type fakeTextarea struct {
	value  string
	hidden bool
}

func (f *fakeTextarea) Value() string { return f.value }
func (f *fakeTextarea) Hide()         { f.hidden = true }

func TestTextareaOverridesText(t *testing.T) {
	ta := &fakeTextarea{value: "from stdin"}
	app, _ := startTestApp(t, "ignored", func(o *Options) { o.Textarea = ta })
	if got := app.Value(); got != "from stdin" {
		t.Errorf("expected 'from stdin', got %q", got)
	}
	if !ta.hidden {
		t.Error("expected textarea to be hidden")
	}
}

func TestGutterClickHook(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hooks.lua")
	code := "clicked = 0\nfunction on_gutter_click(n) clicked = n end\n"
	if err := os.WriteFile(script, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	app, _ := startTestApp(t, "a\nb", func(o *Options) {
		o.Config.Editor.FirstLineNumber = 7
		o.Config.Plugins.Script = script
	})
	if app.hooks == nil {
		t.Fatal("expected hooks to load")
	}

	send(t, app, click(1, 1)...)
	if got := app.hooks.State().GetGlobal("clicked").String(); got != "8" {
		t.Errorf("expected clicked = 8, got %s", got)
	}
	if app.Editor().Cursors().Len() != 0 {
		t.Error("expected gutter click not to place a cursor")
	}
}

func TestBrokenHookScriptIsNotFatal(t *testing.T) {
	script := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(script, []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	app, _ := startTestApp(t, "abc", func(o *Options) { o.Config.Plugins.Script = script })
	if app.hooks != nil {
		t.Error("expected hooks to be skipped")
	}
	if app.Editor() == nil {
		t.Error("expected editor to be mounted")
	}
}

func TestConfigReloadIsPostedToLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinyedit.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app, b := startTestApp(t, "a\tb\nc", func(o *Options) {
		o.ConfigPath = path
		o.Watch = true
	})
	if app.watcher == nil {
		t.Fatal("expected watcher to start")
	}

	data := "[editor]\ntabWidth = 3\ntabStyle = \"soft\"\nlineBreak = \"\\r\\n\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForConfig(t, app, b, func(cfg config.Config) bool { return cfg.Editor.TabWidth == 3 })
	if app.Editor().Options().TabWidth != 3 {
		t.Errorf("expected editor tab width 3, got %d", app.Editor().Options().TabWidth)
	}
	if got, want := app.Value(), "a   b\r\nc"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConfigReloadKeepsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinyedit.toml")
	if err := os.WriteFile(path, []byte("[editor]\nfirstLineNumber = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	overrides := func(cfg *config.Config) {
		cfg.Editor.TabWidth = 8
		cfg.Editor.Editable = false
	}
	app, b := startTestApp(t, "ab", func(o *Options) {
		overrides(&o.Config)
		o.ConfigPath = path
		o.Watch = true
		o.Overrides = overrides
	})
	if app.watcher == nil {
		t.Fatal("expected watcher to start")
	}

	if err := os.WriteFile(path, []byte("[editor]\nfirstLineNumber = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForConfig(t, app, b, func(cfg config.Config) bool { return cfg.Editor.FirstLineNumber == 5 })

	opts := app.Editor().Options()
	if opts.TabWidth != 8 || !opts.ReadOnly {
		t.Errorf("expected tab width 8 and read-only after reload, got %d and %v", opts.TabWidth, opts.ReadOnly)
	}
	send(t, app, click(5, 0)...)
	if n := app.Editor().Cursors().Len(); n != 0 {
		t.Errorf("expected no cursor on a read-only editor, got %d", n)
	}
}

func TestLoadConfigAppliesOverridesBeforeValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinyedit.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabWidth = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app, _ := newTestApp(t, "", func(o *Options) {
		o.Overrides = func(cfg *config.Config) { cfg.Editor.TabWidth = 2 }
	})
	cfg, err := app.loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Editor.TabWidth != 2 {
		t.Errorf("expected tab width 2, got %d", cfg.Editor.TabWidth)
	}
}

// waitForConfig pumps loop events until ok accepts the applied config.
func waitForConfig(t *testing.T, app *Application, b *backend.NullBackend, ok func(config.Config) bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !ok(app.Config()) {
		if time.Now().After(deadline) {
			t.Fatal("reload was not applied")
		}
		send(t, app, pollWithin(t, b, 3*time.Second))
	}
}

func TestRun(t *testing.T) {
	app, b := newTestApp(t, "abc")
	for _, ev := range append(click(5, 0), key('X'), backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlQ}) {
		if err := b.PostEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	if err := app.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := app.Value(); got != "aXbc" {
		t.Errorf("expected 'aXbc', got %q", got)
	}
	if row := b.Row(0); !strings.HasPrefix(row, "  1 aXbc") {
		t.Errorf("expected first row to show the edit, got %q", row)
	}
	if app.IsRunning() {
		t.Error("expected Run to have stopped")
	}
}

func TestRunTwiceConcurrently(t *testing.T) {
	app, _ := newTestApp(t, "")
	app.running.Store(true)
	if err := app.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestShutdownStopsRun(t *testing.T) {
	app, _ := newTestApp(t, "")
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run() }()

	deadline := time.Now().Add(2 * time.Second)
	for app.Renderer() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	app.Shutdown()
	app.Shutdown()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
