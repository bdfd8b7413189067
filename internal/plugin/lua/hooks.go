package lua

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tinyedit/internal/editor"
	"github.com/dshills/tinyedit/internal/logging"
)

// Hook function names.
const (
	FuncMount       = "on_mount"
	FuncGutterClick = "on_gutter_click"
	FuncAbort       = "on_abort"
)

// Hooks dispatches editor hooks to a script.
type Hooks struct {
	state  *State
	logger *logging.Logger

	mu      sync.Mutex
	current *editor.Editor
}

// NewHooks wraps state and installs the tinyedit module into it.
func NewHooks(state *State, logger *logging.Logger) *Hooks {
	if logger == nil {
		logger = logging.Null()
	}
	h := &Hooks{state: state, logger: logger.WithComponent("hooks")}
	state.RegisterModule("tinyedit", map[string]lua.LGFunction{
		"log":        h.luaLog,
		"value":      h.luaValue,
		"id":         h.luaID,
		"line_count": h.luaLineCount,
	})
	return h
}

// LoadHooks creates a state, installs the tinyedit module and runs the
// script at path.
func LoadHooks(path string, logger *logging.Logger, opts ...StateOption) (*Hooks, error) {
	state, err := NewState(append([]StateOption{WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	h := NewHooks(state, logger)
	if err := state.DoFile(path); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("load hook script %s: %w", path, err)
	}
	return h, nil
}

// State returns the underlying state.
func (h *Hooks) State() *State {
	return h.state
}

// EditorHooks returns editor hooks that call the script. Functions the
// script does not define are skipped.
func (h *Hooks) EditorHooks() editor.Hooks {
	return editor.Hooks{
		Mounted: func(e *editor.Editor) {
			h.dispatch(e, FuncMount, lua.LString(e.ID()))
		},
		GutterClick: func(e *editor.Editor, number int) {
			h.dispatch(e, FuncGutterClick, lua.LNumber(number))
		},
		Abort: func(e *editor.Editor) {
			h.dispatch(e, FuncAbort)
		},
	}
}

// Close closes the state.
func (h *Hooks) Close() error {
	return h.state.Close()
}

func (h *Hooks) dispatch(e *editor.Editor, fn string, args ...lua.LValue) {
	h.mu.Lock()
	h.current = e
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.current = nil
		h.mu.Unlock()
	}()

	if _, err := h.state.Call(fn, args...); err != nil {
		if errors.Is(err, ErrNoFunction) {
			return
		}
		h.logger.Warn("%s: %v", fn, err)
	}
}

func (h *Hooks) editor() *editor.Editor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Hooks) luaLog(L *lua.LState) int {
	h.logger.Info("%s", L.CheckString(1))
	return 0
}

func (h *Hooks) luaValue(L *lua.LState) int {
	e := h.editor()
	if e == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(e.Value()))
	return 1
}

func (h *Hooks) luaID(L *lua.LState) int {
	e := h.editor()
	if e == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(e.ID()))
	return 1
}

func (h *Hooks) luaLineCount(L *lua.LState) int {
	e := h.editor()
	if e == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(e.Document().LineCount()))
	return 1
}
