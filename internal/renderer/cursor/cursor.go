// Package cursor decides how and when cursor markers are drawn.
//
// A cursor fragment carries a blink flag. While the flag is off the cursor
// is drawn solid. When it turns on the blink phase restarts in the visible
// half, so the deferred blink reset in the engine restarts the animation
// exactly once per burst of edits.
package cursor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/tinyedit/internal/renderer/backend"
	"github.com/dshills/tinyedit/internal/renderer/core"
)

// Style is the visual shape of the cursor.
type Style uint8

const (
	// StyleBlock draws the cell under the cursor in reverse video.
	StyleBlock Style = iota
	// StyleBar draws a vertical bar hardware cursor.
	StyleBar
	// StyleUnderline underlines the cell under the cursor.
	StyleUnderline
	// StyleHollow draws the cell bold and underlined.
	StyleHollow
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleBar:
		return "bar"
	case StyleUnderline:
		return "underline"
	case StyleHollow:
		return "hollow"
	default:
		return "block"
	}
}

// StyleFromString parses a style name.
func StyleFromString(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return StyleBlock, nil
	case "bar", "line", "beam":
		return StyleBar, nil
	case "underline":
		return StyleUnderline, nil
	case "hollow":
		return StyleHollow, nil
	default:
		return StyleBlock, fmt.Errorf("unknown cursor style %q", s)
	}
}

// Backend returns the hardware cursor shape for s.
func (s Style) Backend() backend.CursorStyle {
	switch s {
	case StyleBar:
		return backend.CursorBar
	case StyleUnderline:
		return backend.CursorUnderline
	default:
		return backend.CursorBlock
	}
}

// Config holds cursor drawing configuration.
type Config struct {
	Style     Style
	Blink     bool
	BlinkRate time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Style:     StyleBlock,
		Blink:     true,
		BlinkRate: 500 * time.Millisecond,
	}
}

// Renderer tracks the blink phase.
type Renderer struct {
	mu         sync.Mutex
	config     Config
	phaseStart time.Time
	last       bool
}

// New creates a renderer.
func New(config Config) *Renderer {
	return &Renderer{config: config, last: true}
}

// Config returns the configuration.
func (r *Renderer) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig replaces the configuration.
func (r *Renderer) SetConfig(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
}

// Visible reports whether a cursor whose blink flag is blinking should be
// drawn at now. A solid cursor is always visible and restarts the phase.
func (r *Renderer) Visible(blinking bool, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = r.visible(blinking, now)
	return r.last
}

// Changed reports whether Visible would now return something different
// from its last result.
func (r *Renderer) Changed(blinking bool, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible(blinking, now) != r.last
}

func (r *Renderer) visible(blinking bool, now time.Time) bool {
	if !r.config.Blink || !blinking || r.config.BlinkRate <= 0 {
		r.phaseStart = now
		return true
	}
	if r.phaseStart.IsZero() {
		r.phaseStart = now
	}
	half := now.Sub(r.phaseStart) / r.config.BlinkRate
	return half%2 == 0
}

// CursorCell decorates the cell under a visible cursor.
func (r *Renderer) CursorCell(under core.Cell) core.Cell {
	r.mu.Lock()
	style := r.config.Style
	r.mu.Unlock()

	switch style {
	case StyleBlock:
		under.Style = under.Style.With(core.AttrReverse)
	case StyleUnderline:
		under.Style = under.Style.With(core.AttrUnderline)
	case StyleHollow:
		under.Style = under.Style.With(core.AttrBold | core.AttrUnderline)
	}
	return under
}
