package lua

import (
	"errors"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func newState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStateDoString(t *testing.T) {
	s := newState(t)
	if err := s.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("x"); got != glua.LNumber(2) {
		t.Errorf("x = %v, want 2", got)
	}
}

func TestStateCall(t *testing.T) {
	s := newState(t)
	if err := s.DoString(`function add(a, b) return a + b, "done" end`); err != nil {
		t.Fatal(err)
	}
	if !s.HasFunction("add") {
		t.Fatal("HasFunction(add) = false")
	}
	out, err := s.Call("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(out) != 2 || out[0] != glua.LNumber(5) || out[1] != glua.LString("done") {
		t.Errorf("Call() = %v", out)
	}
	if _, err := s.Call("missing"); !errors.Is(err, ErrNoFunction) {
		t.Errorf("Call(missing) error = %v, want ErrNoFunction", err)
	}
	if s.L.GetTop() != 0 {
		t.Errorf("stack not restored, top = %d", s.L.GetTop())
	}
}

func TestSandboxRemovesUnsafeGlobals(t *testing.T) {
	s := newState(t)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		if v := s.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be nil, got %s", name, v.Type())
		}
	}
	if err := s.DoString(`os.exit(1)`); err == nil {
		t.Error("expected os access to fail")
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := s.GetGlobal(name); v == glua.LNil {
			t.Errorf("%s should be available", name)
		}
	}
}

func TestStateTimeout(t *testing.T) {
	s := newState(t, WithExecutionTimeout(50*time.Millisecond))
	start := time.Now()
	err := s.DoString(`while true do end`)
	if err == nil {
		t.Fatal("expected an error from an endless loop")
	}
	if !strings.Contains(err.Error(), "deadline") {
		t.Errorf("error = %v, want a deadline error", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout took too long")
	}
	if err := s.DoString(`y = 1`); err != nil {
		t.Errorf("state unusable after timeout: %v", err)
	}
}

func TestClosedState(t *testing.T) {
	s, _ := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
	if _, err := s.Call("f"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() error = %v, want ErrStateClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
