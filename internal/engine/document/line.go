package document

import (
	"fmt"
	"slices"
	"strings"
)

// Position addresses a character boundary inside a line: Offset characters
// into Fragment. A nil Fragment means the line has no fragment covering the
// requested offset and the caller should append.
type Position struct {
	Fragment *Fragment
	Offset   int
}

// Line is an ordered sequence of fragments.
type Line struct {
	frags []*Fragment
}

// NewLine creates a line from detached fragments and normalizes it.
func NewLine(frags ...*Fragment) *Line {
	l := &Line{}
	for _, f := range frags {
		if f == nil || f.line != nil {
			continue
		}
		f.line = l
		l.frags = append(l.frags, f)
	}
	l.Normalize()
	return l
}

// ParseLine builds a line from raw text. Each tab character becomes an atomic
// Tab fragment of tabWidth columns.
func ParseLine(s string, tabWidth int) *Line {
	l := &Line{}
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			l.attach(len(l.frags), NewText(run.String()))
			run.Reset()
		}
	}
	for _, r := range s {
		if r == '\t' {
			flush()
			l.attach(len(l.frags), NewTab(tabWidth))
			continue
		}
		run.WriteRune(r)
	}
	flush()
	return l
}

// Fragments returns a copy of the fragment sequence.
func (l *Line) Fragments() []*Fragment {
	out := make([]*Fragment, len(l.frags))
	copy(out, l.frags)
	return out
}

// Count returns the number of fragments.
func (l *Line) Count() int {
	return len(l.frags)
}

// At returns the fragment at index i, or nil.
func (l *Line) At(i int) *Fragment {
	if i < 0 || i >= len(l.frags) {
		return nil
	}
	return l.frags[i]
}

// Index returns the index of f in the line, or -1.
func (l *Line) Index(f *Fragment) int {
	if f == nil || f.line != l {
		return -1
	}
	return slices.Index(l.frags, f)
}

// Prev returns the fragment immediately before f, or nil.
func (l *Line) Prev(f *Fragment) *Fragment {
	return l.At(l.Index(f) - 1)
}

// Next returns the fragment immediately after f, or nil.
func (l *Line) Next(f *Fragment) *Fragment {
	i := l.Index(f)
	if i < 0 {
		return nil
	}
	return l.At(i + 1)
}

// Len returns the total character length of the line.
func (l *Line) Len() int {
	n := 0
	for _, f := range l.frags {
		n += f.Len()
	}
	return n
}

// Start returns the absolute character offset at which f begins.
func (l *Line) Start(f *Fragment) (int, error) {
	n := 0
	for _, g := range l.frags {
		if g == f {
			return n, nil
		}
		n += g.Len()
	}
	return 0, ErrNotInLine
}

// FragmentAtOffset finds the fragment containing absolute offset n.
// At a boundary between two fragments the earlier one is returned with a
// local offset equal to its length. Zero-width fragments are never returned.
// If no fragment covers n (an empty line) the returned Position has a nil
// Fragment.
func (l *Line) FragmentAtOffset(n int) (Position, error) {
	if n < 0 || n > l.Len() {
		return Position{}, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, n)
	}
	acc := 0
	for _, f := range l.frags {
		size := f.Len()
		if size == 0 {
			continue
		}
		if n <= acc+size {
			return Position{Fragment: f, Offset: n - acc}, nil
		}
		acc += size
	}
	return Position{}, nil
}

// SplitAtOffset inserts the detached fragment ins at absolute offset n and
// returns its index. At a fragment boundary no text is touched; strictly
// inside a text run the run is split in two and ins goes between the halves.
// Tabs are atomic: an offset inside a tab resolves to the nearer tab edge.
func (l *Line) SplitAtOffset(n int, ins *Fragment) (int, error) {
	pos, err := l.FragmentAtOffset(n)
	if err != nil {
		return -1, err
	}
	return l.InsertAtPosition(pos, ins)
}

// InsertAtPosition inserts the detached fragment ins at pos and returns its
// index. See SplitAtOffset.
func (l *Line) InsertAtPosition(pos Position, ins *Fragment) (int, error) {
	if ins.line != nil {
		return -1, ErrAttached
	}
	f := pos.Fragment
	if f == nil {
		i := len(l.frags)
		l.attach(i, ins)
		return i, nil
	}
	i := l.Index(f)
	if i < 0 {
		return -1, ErrNotInLine
	}
	size := f.Len()
	if pos.Offset < 0 || pos.Offset > size {
		return -1, fmt.Errorf("%w: %d in %s fragment", ErrOffsetOutOfRange, pos.Offset, f.kind)
	}

	switch {
	case pos.Offset == 0:
	case pos.Offset == size:
		i++
	case f.kind == KindTab:
		if pos.Offset*2 >= size {
			i++
		}
	default:
		tail := f.splitText(pos.Offset)
		l.attach(i+1, tail)
		i++
	}
	l.attach(i, ins)
	return i, nil
}

// InsertBefore inserts the detached fragment ins before ref. A nil ref
// appends.
func (l *Line) InsertBefore(ins, ref *Fragment) error {
	if ins.line != nil {
		return ErrAttached
	}
	if ref == nil {
		l.attach(len(l.frags), ins)
		return nil
	}
	i := l.Index(ref)
	if i < 0 {
		return ErrNotInLine
	}
	l.attach(i, ins)
	return nil
}

// InsertAfter inserts the detached fragment ins after ref. A nil ref
// prepends.
func (l *Line) InsertAfter(ins, ref *Fragment) error {
	if ins.line != nil {
		return ErrAttached
	}
	if ref == nil {
		l.attach(0, ins)
		return nil
	}
	i := l.Index(ref)
	if i < 0 {
		return ErrNotInLine
	}
	l.attach(i+1, ins)
	return nil
}

// Append adds the detached fragment ins at the end of the line.
func (l *Line) Append(ins *Fragment) error {
	return l.InsertBefore(ins, nil)
}

// Remove detaches f from the line without merging its neighbours.
func (l *Line) Remove(f *Fragment) error {
	i := l.Index(f)
	if i < 0 {
		return ErrNotInLine
	}
	l.frags = slices.Delete(l.frags, i, i+1)
	f.line = nil
	return nil
}

// RemoveAndMerge detaches f and merges the two fragments that become
// neighbours if both are text runs.
func (l *Line) RemoveAndMerge(f *Fragment) error {
	i := l.Index(f)
	if i < 0 {
		return ErrNotInLine
	}
	l.frags = slices.Delete(l.frags, i, i+1)
	f.line = nil
	if i > 0 && i < len(l.frags) && l.frags[i-1].IsText() && l.frags[i].IsText() {
		return l.MergeAdjacent(l.frags[i-1], l.frags[i])
	}
	return nil
}

// MergeAdjacent concatenates text run b into text run a and removes b.
// b must directly follow a.
func (l *Line) MergeAdjacent(a, b *Fragment) error {
	i := l.Index(a)
	if i < 0 || l.Index(b) < 0 {
		return ErrNotInLine
	}
	if l.At(i+1) != b {
		return ErrNotAdjacent
	}
	if !a.IsText() || !b.IsText() {
		return fmt.Errorf("%w: %s and %s", ErrNotMergeable, a.kind, b.kind)
	}
	a.text += b.text
	l.frags = slices.Delete(l.frags, i+1, i+2)
	b.line = nil
	return nil
}

// Normalize merges every pair of adjacent text runs and drops empty ones.
func (l *Line) Normalize() {
	out := l.frags[:0]
	for _, f := range l.frags {
		if f.IsText() && f.text == "" {
			f.line = nil
			continue
		}
		if n := len(out); n > 0 && f.IsText() && out[n-1].IsText() {
			out[n-1].text += f.text
			f.line = nil
			continue
		}
		out = append(out, f)
	}
	clear(l.frags[len(out):])
	l.frags = out
}

// Validate checks the merge invariant and fragment ownership.
func (l *Line) Validate() error {
	for i, f := range l.frags {
		if f.line != l {
			return fmt.Errorf("fragment %d: %w", i, ErrNotInLine)
		}
		if i > 0 && f.IsText() && l.frags[i-1].IsText() {
			return fmt.Errorf("fragments %d and %d: %w", i-1, i, ErrUnmergedRuns)
		}
	}
	return nil
}

// String returns the displayed text of the line with tabs expanded.
func (l *Line) String() string {
	var sb strings.Builder
	for _, f := range l.frags {
		sb.WriteString(f.Text())
	}
	return sb.String()
}

// Serialize returns the line's text using the tab representation in format.
func (l *Line) Serialize(format Format) string {
	var sb strings.Builder
	for _, f := range l.frags {
		if f.kind == KindTab {
			sb.WriteString(format.tab(f))
			continue
		}
		sb.WriteString(f.Text())
	}
	return sb.String()
}

func (l *Line) attach(i int, f *Fragment) {
	f.line = l
	l.frags = slices.Insert(l.frags, i, f)
}
