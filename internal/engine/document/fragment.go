package document

import (
	"strings"
	"unicode/utf8"
)

// Kind identifies the variant of a Fragment.
type Kind uint8

const (
	// KindText is a mutable run of characters.
	KindText Kind = iota
	// KindTab is an atomic tab pseudo-element.
	KindTab
	// KindCursor is a zero-width insertion marker.
	KindCursor
	// KindProbe is a zero-width measuring marker.
	KindProbe
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTab:
		return "tab"
	case KindCursor:
		return "cursor"
	case KindProbe:
		return "probe"
	default:
		return "unknown"
	}
}

// Fragment is a span inside a Line.
type Fragment struct {
	kind  Kind
	text  string // Text only
	width int    // Tab only
	blink bool   // Cursor only
	line  *Line
}

// NewText creates a text fragment.
func NewText(s string) *Fragment {
	return &Fragment{kind: KindText, text: s}
}

// NewTab creates a tab fragment that expands to width columns.
func NewTab(width int) *Fragment {
	if width < 1 {
		width = 1
	}
	return &Fragment{kind: KindTab, width: width}
}

// NewCursor creates a cursor marker in the blinking state.
func NewCursor() *Fragment {
	return &Fragment{kind: KindCursor, blink: true}
}

// NewProbe creates a zero-width probe.
func NewProbe() *Fragment {
	return &Fragment{kind: KindProbe}
}

// Kind returns the fragment variant.
func (f *Fragment) Kind() Kind {
	return f.kind
}

// IsText reports whether f is a text run.
func (f *Fragment) IsText() bool {
	return f != nil && f.kind == KindText
}

// Len returns the number of characters the fragment contributes to its line.
func (f *Fragment) Len() int {
	switch f.kind {
	case KindText:
		return utf8.RuneCountInString(f.text)
	case KindTab:
		return f.width
	default:
		return 0
	}
}

// Text returns the fragment's text content. Tabs return their expansion.
func (f *Fragment) Text() string {
	switch f.kind {
	case KindText:
		return f.text
	case KindTab:
		return strings.Repeat(" ", f.width)
	default:
		return ""
	}
}

// Width returns the expansion width of a tab, or 0 for other kinds.
func (f *Fragment) Width() int {
	if f.kind != KindTab {
		return 0
	}
	return f.width
}

// SetText replaces the content of a text run. It is a no-op for other kinds.
func (f *Fragment) SetText(s string) {
	if f.kind == KindText {
		f.text = s
	}
}

// Append appends s to a text run.
func (f *Fragment) Append(s string) {
	if f.kind == KindText {
		f.text += s
	}
}

// Prepend inserts s at the start of a text run.
func (f *Fragment) Prepend(s string) {
	if f.kind == KindText {
		f.text = s + f.text
	}
}

// Blinking reports whether a cursor is in its blinking visual state.
func (f *Fragment) Blinking() bool {
	return f.kind == KindCursor && f.blink
}

// SetBlink sets the blinking visual state of a cursor.
func (f *Fragment) SetBlink(on bool) {
	if f.kind == KindCursor {
		f.blink = on
	}
}

// Line returns the owning line, or nil if the fragment is detached.
func (f *Fragment) Line() *Line {
	return f.line
}

// Attached reports whether the fragment belongs to a line.
func (f *Fragment) Attached() bool {
	return f.line != nil
}

// splitText cuts a text run at a rune offset, keeping the head in f and
// returning a new detached fragment with the tail.
func (f *Fragment) splitText(at int) *Fragment {
	i := byteIndex(f.text, at)
	tail := NewText(f.text[i:])
	f.text = f.text[:i]
	return tail
}

// byteIndex converts a rune offset into a byte index of s.
func byteIndex(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}
