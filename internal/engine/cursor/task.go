package cursor

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it
	// before it ran.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc calls fn(d, f).
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// TimeScheduler schedules with time.AfterFunc. Callbacks run on their own
// goroutine.
var TimeScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})

// Task runs fn once after a delay. Schedule calls made while a run is
// pending are absorbed by it.
type Task struct {
	mu      sync.Mutex
	sched   Scheduler
	delay   time.Duration
	fn      func()
	timer   Timer
	pending bool
	gen     uint64
}

// NewTask creates a task. A nil scheduler uses TimeScheduler.
func NewTask(sched Scheduler, delay time.Duration, fn func()) *Task {
	if sched == nil {
		sched = TimeScheduler
	}
	return &Task{sched: sched, delay: delay, fn: fn}
}

// Schedule arms the task unless it is already pending. It reports whether
// a new run was scheduled.
func (t *Task) Schedule() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending {
		return false
	}
	t.pending = true
	t.gen++
	gen := t.gen
	t.timer = t.sched.AfterFunc(t.delay, func() { t.fire(gen) })
	return true
}

// Pending reports whether a run is scheduled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Cancel stops a pending run.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = nil
	t.pending = false
	t.gen++
}

// SetDelay changes the delay used by subsequent schedules.
func (t *Task) SetDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delay = d
}

func (t *Task) fire(gen uint64) {
	t.mu.Lock()
	if !t.pending || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.timer = nil
	t.mu.Unlock()
	t.fn()
}
