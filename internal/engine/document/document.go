package document

import (
	"fmt"
	"slices"
	"strings"
)

// TabStyle selects how tab fragments serialize.
type TabStyle uint8

const (
	// TabUnset inherits the tab style from the surrounding configuration.
	TabUnset TabStyle = iota
	// TabHard serializes a tab as a tab character.
	TabHard
	// TabSoft serializes a tab as spaces.
	TabSoft
)

// ParseTabStyle parses "hard" or "soft".
func ParseTabStyle(s string) (TabStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return TabHard, nil
	case "soft":
		return TabSoft, nil
	case "":
		return TabUnset, nil
	default:
		return TabUnset, fmt.Errorf("%w: %q", ErrInvalidTabStyle, s)
	}
}

// String returns the style name.
func (s TabStyle) String() string {
	switch s {
	case TabHard:
		return "hard"
	case TabSoft:
		return "soft"
	default:
		return ""
	}
}

// Format controls serialization.
type Format struct {
	TabStyle  TabStyle
	TabWidth  int    // soft tab expansion; 0 keeps each tab's own width
	LineBreak string // joins lines; empty means "\n"
}

func (f Format) tab(frag *Fragment) string {
	if f.TabStyle != TabSoft {
		return "\t"
	}
	w := f.TabWidth
	if w < 1 {
		w = frag.width
	}
	return strings.Repeat(" ", w)
}

// Document is an ordered list of lines.
type Document struct {
	lines []*Line
}

// Parse splits text on \r?\n and builds one line per segment. Trailing
// whitespace is preserved.
func Parse(text string, tabWidth int) *Document {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	d := &Document{lines: make([]*Line, 0, len(raw))}
	for _, s := range raw {
		d.lines = append(d.lines, ParseLine(s, tabWidth))
	}
	return d
}

// Lines returns a copy of the line list.
func (d *Document) Lines() []*Line {
	out := make([]*Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line i, or nil.
func (d *Document) Line(i int) *Line {
	if i < 0 || i >= len(d.lines) {
		return nil
	}
	return d.lines[i]
}

// IndexOf returns the index of l, or -1.
func (d *Document) IndexOf(l *Line) int {
	return slices.Index(d.lines, l)
}

// Serialize joins the serialized lines with format.LineBreak.
func (d *Document) Serialize(format Format) string {
	lb := format.LineBreak
	if lb == "" {
		lb = "\n"
	}
	parts := make([]string, len(d.lines))
	for i, l := range d.lines {
		parts[i] = l.Serialize(format)
	}
	return strings.Join(parts, lb)
}

// Validate checks every line.
func (d *Document) Validate() error {
	for i, l := range d.lines {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}
