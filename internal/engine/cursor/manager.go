package cursor

import (
	"slices"
	"time"

	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/logging"
)

// Manager owns the active cursors of one editor.
type Manager struct {
	active []*document.Fragment
	input  *InputProxy
	blink  *Task
	logger *logging.Logger
}

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	sched  Scheduler
	delay  time.Duration
	logger *logging.Logger
}

// WithScheduler sets the scheduler for the deferred blink reset.
func WithScheduler(s Scheduler) Option {
	return func(o *managerOptions) {
		o.sched = s
	}
}

// WithResetDelay sets how long cursors stay solid after ResetBlink.
func WithResetDelay(d time.Duration) Option {
	return func(o *managerOptions) {
		o.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *managerOptions) {
		o.logger = l
	}
}

// New creates a Manager.
func New(opts ...Option) *Manager {
	o := managerOptions{logger: logging.Null()}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager{logger: o.logger.WithComponent("cursor")}
	m.blink = NewTask(o.sched, o.delay, m.applyBlink)
	return m
}

// Create allocates a blinking cursor and registers it as active. The
// caller inserts it into a line.
func (m *Manager) Create() *document.Fragment {
	c := document.NewCursor()
	m.active = append(m.active, c)
	return c
}

// Cursors returns the active cursors.
func (m *Manager) Cursors() []*document.Fragment {
	return slices.Clone(m.active)
}

// Len returns the number of active cursors.
func (m *Manager) Len() int {
	return len(m.active)
}

// Input returns the shared input proxy, or nil before the first
// ActivateForInput.
func (m *Manager) Input() *InputProxy {
	return m.input
}

// Focused returns the cursor bound to a focused input proxy, or nil.
func (m *Manager) Focused() *document.Fragment {
	if m.input == nil || !m.input.focused {
		return nil
	}
	return m.input.owner
}

// ActivateForInput binds the shared input proxy to c and focuses it. When
// the proxy later loses focus c is removed.
func (m *Manager) ActivateForInput(c *document.Fragment) {
	if m.input == nil {
		m.input = &InputProxy{}
	}
	m.input.release()
	m.input.owner = c
	m.input.onBlur = func() { m.Remove(c) }
	m.input.Focus()
}

// Remove detaches c from its line, merges the text runs around it and
// drops it from the active list.
func (m *Manager) Remove(c *document.Fragment) {
	if i := slices.Index(m.active, c); i >= 0 {
		m.active = slices.Delete(m.active, i, i+1)
	}
	if m.input != nil && m.input.owner == c {
		m.input.release()
	}
	m.detach(c)
}

// RemoveAll removes every active cursor. The blur listener is detached
// first so that losing focus during teardown does not re-enter. Calling
// RemoveAll with no active cursors does nothing.
func (m *Manager) RemoveAll() {
	if m.input != nil {
		m.input.release()
	}
	for _, c := range m.active {
		m.detach(c)
	}
	clear(m.active)
	m.active = m.active[:0]
}

// ResetBlink makes every active cursor solid now and blinking again after
// the reset delay.
func (m *Manager) ResetBlink() {
	for _, c := range m.active {
		c.SetBlink(false)
	}
	m.blink.Schedule()
}

// SetResetDelay changes the reset delay.
func (m *Manager) SetResetDelay(d time.Duration) {
	m.blink.SetDelay(d)
}

// BlinkPending reports whether a blink reset is scheduled.
func (m *Manager) BlinkPending() bool {
	return m.blink.Pending()
}

// Close cancels the pending blink reset and removes every cursor.
func (m *Manager) Close() {
	m.blink.Cancel()
	m.RemoveAll()
}

func (m *Manager) applyBlink() {
	for _, c := range slices.Clone(m.active) {
		if !c.Attached() {
			continue
		}
		c.SetBlink(true)
	}
}

func (m *Manager) detach(c *document.Fragment) {
	line := c.Line()
	if line == nil {
		return
	}
	if err := line.Remove(c); err != nil {
		m.logger.Warn("remove cursor: %v", err)
		return
	}
	line.Normalize()
}
