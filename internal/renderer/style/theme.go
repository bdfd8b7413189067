package style

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/dshills/tinyedit/internal/renderer/core"
)

// Entry is the textual form of a theme entry, as read from configuration.
type Entry struct {
	Fg        string `toml:"fg" yaml:"fg"`
	Bg        string `toml:"bg" yaml:"bg"`
	Bold      bool   `toml:"bold" yaml:"bold"`
	Dim       bool   `toml:"dim" yaml:"dim"`
	Reverse   bool   `toml:"reverse" yaml:"reverse"`
	Underline bool   `toml:"underline" yaml:"underline"`
}

// Style converts e.
func (e Entry) Style() (core.Style, error) {
	fg, err := core.ColorFromHex(e.Fg)
	if err != nil {
		return core.Style{}, fmt.Errorf("fg: %w", err)
	}
	bg, err := core.ColorFromHex(e.Bg)
	if err != nil {
		return core.Style{}, fmt.Errorf("bg: %w", err)
	}
	s := core.Style{Foreground: fg, Background: bg}
	if e.Bold {
		s = s.With(core.AttrBold)
	}
	if e.Dim {
		s = s.With(core.AttrDim)
	}
	if e.Reverse {
		s = s.With(core.AttrReverse)
	}
	if e.Underline {
		s = s.With(core.AttrUnderline)
	}
	return s, nil
}

// Theme maps classes to styles.
type Theme struct {
	mu     sync.RWMutex
	styles map[string]core.Style
}

// DefaultTheme returns the built-in theme: a dim gutter and nothing else.
func DefaultTheme() *Theme {
	t := &Theme{styles: map[string]core.Style{}}
	t.styles[ClassGutterInner] = core.DefaultStyle().With(core.AttrDim)
	return t
}

// FromEntries builds a theme from configuration entries layered over the
// default theme. Keys may be given with or without the namespace prefix.
func FromEntries(entries map[string]Entry) (*Theme, error) {
	t := DefaultTheme()
	for name, e := range entries {
		s, err := e.Style()
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
		t.Set(name, s)
	}
	return t, nil
}

// Set assigns the style of class.
func (t *Theme) Set(class string, s core.Style) {
	class = strings.TrimPrefix(class, Namespace+"-")
	t.mu.Lock()
	defer t.mu.Unlock()
	t.styles[class] = s
}

// Style returns the style of a single class.
func (t *Theme) Style(class string) (core.Style, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.styles[class]
	return s, ok
}

// Resolve merges the styles of classes in order, later classes on top.
func (t *Theme) Resolve(classes ...string) core.Style {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := core.DefaultStyle()
	for _, c := range classes {
		if s, ok := t.styles[c]; ok {
			out = out.Merge(s)
		}
	}
	return out
}

// Replace swaps in the styles of other.
func (t *Theme) Replace(other *Theme) {
	other.mu.RLock()
	styles := maps.Clone(other.styles)
	other.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.styles = styles
}
