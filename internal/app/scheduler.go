package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/tinyedit/internal/engine/cursor"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer/backend"
)

// retryDelay is how long a callback waits before reposting to a full
// event queue.
const retryDelay = 10 * time.Millisecond

// loopScheduler implements cursor.Scheduler by posting callbacks to the
// event loop as interrupt events, so that they run on the loop goroutine
// together with input handling.
type loopScheduler struct {
	backend backend.Backend
	logger  *logging.Logger
	closed  atomic.Bool
}

func newLoopScheduler(b backend.Backend, logger *logging.Logger) *loopScheduler {
	return &loopScheduler{backend: b, logger: logger}
}

// loopTimer is stopped once either Stop runs or the callback starts.
type loopTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}

// AfterFunc implements cursor.Scheduler.
func (s *loopScheduler) AfterFunc(d time.Duration, f func()) cursor.Timer {
	t := &loopTimer{}
	run := func() {
		if t.done.CompareAndSwap(false, true) {
			f()
		}
	}
	t.timer = time.AfterFunc(d, func() { s.post(run) })
	return t
}

// post queues fn on the event loop, retrying while the queue is full.
func (s *loopScheduler) post(fn func()) {
	if s.closed.Load() {
		return
	}
	if err := s.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: fn}); err != nil {
		s.logger.Debug("post interrupt: %v; retrying", err)
		time.AfterFunc(retryDelay, func() { s.post(fn) })
	}
}

// close drops callbacks that have not been posted yet.
func (s *loopScheduler) close() {
	s.closed.Store(true)
}
