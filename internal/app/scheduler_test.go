package app

import (
	"testing"
	"time"

	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer/backend"
)

func TestLoopSchedulerPostsToBackend(t *testing.T) {
	b := backend.NewNullBackend(1, 1)
	s := newLoopScheduler(b, logging.Null())

	called := 0
	tm := s.AfterFunc(0, func() { called++ })

	ev := pollWithin(t, b, time.Second)
	if ev.Type != backend.EventInterrupt {
		t.Fatalf("expected interrupt event, got %v", ev.Type)
	}
	if called != 0 {
		t.Fatal("expected callback to wait for the loop")
	}
	ev.Data.(func())()
	if called != 1 {
		t.Errorf("expected 1 call, got %d", called)
	}
	if tm.Stop() {
		t.Error("expected Stop after run to report false")
	}
}

func TestLoopSchedulerStop(t *testing.T) {
	b := backend.NewNullBackend(1, 1)
	s := newLoopScheduler(b, logging.Null())

	tm := s.AfterFunc(time.Hour, func() { t.Error("stopped callback ran") })
	if !tm.Stop() {
		t.Error("expected first Stop to report true")
	}
	if tm.Stop() {
		t.Error("expected second Stop to report false")
	}
}

func TestLoopSchedulerStopAfterPost(t *testing.T) {
	b := backend.NewNullBackend(1, 1)
	s := newLoopScheduler(b, logging.Null())

	called := false
	tm := s.AfterFunc(0, func() { called = true })
	ev := pollWithin(t, b, time.Second)
	tm.Stop()
	ev.Data.(func())()
	if called {
		t.Error("expected a callback stopped after posting not to run")
	}
}

func TestLoopSchedulerClosedDropsPosts(t *testing.T) {
	b := backend.NewNullBackend(1, 1)
	s := newLoopScheduler(b, logging.Null())
	s.close()
	s.post(func() {})
	if err := b.PostEvent(backend.Event{Type: backend.EventNone}); err != nil {
		t.Fatal(err)
	}
	if ev := pollWithin(t, b, time.Second); ev.Type != backend.EventNone {
		t.Errorf("expected no interrupt after close, got %v", ev.Type)
	}
}
