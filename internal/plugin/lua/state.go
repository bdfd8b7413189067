package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tinyedit/internal/logging"
)

// DefaultExecutionTimeout bounds every call into Lua.
const DefaultExecutionTimeout = 2 * time.Second

// State is a sandboxed Lua state. It is safe for use from several
// goroutines; calls are serialized.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	logger  *logging.Logger
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout of each call into Lua.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithLogger sets the logger that receives print output.
func WithLogger(l *logging.Logger) StateOption {
	return func(s *State) {
		s.logger = l
	}
}

// NewState creates a sandboxed state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{
		timeout: DefaultExecutionTimeout,
		logger:  logging.Null(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Null()
	}
	s.logger = s.logger.WithComponent("lua")

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.logger)
	return s, nil
}

// DoFile runs a script file.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error { return s.L.DoFile(path) })
}

// DoString runs a chunk of code.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error { return s.L.DoString(code) })
}

// HasFunction reports whether name is a global function.
func (s *State) HasFunction(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls the global function fn and returns its results.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStateClosed
	}

	f := s.L.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %s", ErrNoFunction, fn)
	}

	top := s.L.GetTop()
	err := s.run(func() error {
		s.L.Push(f)
		for _, a := range args {
			s.L.Push(a)
		}
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if err != nil {
		s.L.SetTop(top)
		return nil, err
	}

	n := s.L.GetTop() - top
	out := make([]lua.LValue, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, s.L.Get(top+i))
	}
	s.L.SetTop(top)
	return out, nil
}

// GetGlobal returns a global value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterModule installs a global table of Go functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// Close releases the state.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// run executes fn under the timeout with panic recovery. The caller holds
// s.mu.
func (s *State) run(fn func() error) (err error) {
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
