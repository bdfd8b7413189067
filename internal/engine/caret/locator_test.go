package caret

import (
	"errors"
	"image"
	"math"
	"math/bits"
	"strings"
	"testing"

	"github.com/dshills/tinyedit/internal/engine/document"
)

// cellGeometry lays a single line out on row y starting at column x0, one
// cell per rune and Width cells per tab.
type cellGeometry struct {
	line   *document.Line
	x0, y  int
	probes int
}

func (g *cellGeometry) LineBounds(l *document.Line) (image.Rectangle, bool) {
	if l != g.line {
		return image.Rectangle{}, false
	}
	return image.Rect(g.x0, g.y, g.x0+80, g.y+1), true
}

func (g *cellGeometry) FragmentBounds(f *document.Fragment) (image.Rectangle, bool) {
	x := g.x0
	for _, h := range g.line.Fragments() {
		if h == f {
			if f.Kind() == document.KindProbe {
				g.probes++
			}
			return image.Rect(x, g.y, x+f.Len(), g.y+1), true
		}
		x += h.Len()
	}
	return image.Rectangle{}, false
}

// nativeGeometry answers CaretFromPoint directly.
type nativeGeometry struct {
	cellGeometry
	calls int
}

func (g *nativeGeometry) CaretFromPoint(l *document.Line, x, y int) (document.Position, bool) {
	g.calls++
	n := min(max(x-g.x0, 0), l.Len())
	pos, err := l.FragmentAtOffset(n)
	return pos, err == nil
}

func TestSearchFindsEveryOffset(t *testing.T) {
	line := document.ParseLine("hello world", 4)
	geom := &cellGeometry{line: line, x0: 5, y: 2}
	loc := New(geom)

	for want := 0; want <= line.Len(); want++ {
		got, _, err := loc.Search(line, geom.x0+want)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("x=%d: expected offset %d, got %d", geom.x0+want, want, got)
		}
	}
}

func TestSearchClampsOutsideX(t *testing.T) {
	line := document.ParseLine("abc", 4)
	geom := &cellGeometry{line: line, x0: 10}
	loc := New(geom)

	if got, _, _ := loc.Search(line, 0); got != 0 {
		t.Errorf("expected 0 left of line, got %d", got)
	}
	if got, _, _ := loc.Search(line, 500); got != 3 {
		t.Errorf("expected 3 right of line, got %d", got)
	}
}

func TestSearchProbeBound(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 8, 31, 100} {
		line := document.ParseLine(strings.Repeat("x", n), 4)
		geom := &cellGeometry{line: line}
		loc := New(geom)
		bound := bits.Len(uint(n)) // ceil(log2(n+1))
		if float64(bound) != math.Ceil(math.Log2(float64(n+1))) {
			t.Fatalf("bound helper wrong for %d", n)
		}

		for x := -1; x <= n+1; x++ {
			off, probes, err := loc.Search(line, x)
			if err != nil {
				t.Fatal(err)
			}
			if off < 0 || off > n {
				t.Errorf("L=%d x=%d: offset %d out of range", n, x, off)
			}
			if probes > bound {
				t.Errorf("L=%d x=%d: %d probes exceeds bound %d", n, x, probes, bound)
			}
		}
	}
}

func TestSearchLeavesLineIntact(t *testing.T) {
	line := document.ParseLine("ab\tcd", 4)
	before := line.Count()
	loc := New(&cellGeometry{line: line})

	for x := 0; x < 10; x++ {
		if _, _, err := loc.Search(line, x); err != nil {
			t.Fatal(err)
		}
		if line.Count() != before {
			t.Fatalf("x=%d: fragment count changed from %d to %d", x, before, line.Count())
		}
		if err := line.Validate(); err != nil {
			t.Fatalf("x=%d: %v", x, err)
		}
		for _, f := range line.Fragments() {
			if f.Kind() == document.KindProbe {
				t.Fatalf("x=%d: probe left behind", x)
			}
		}
	}
	if line.String() != "ab    cd" {
		t.Errorf("line text changed: %q", line.String())
	}
}

func TestSearchInsideTabUsesNoProbe(t *testing.T) {
	line := document.ParseLine("\t", 4)
	geom := &cellGeometry{line: line}
	loc := New(geom)

	off, probes, err := loc.Search(line, 2)
	if err != nil {
		t.Fatal(err)
	}
	if off != 2 {
		t.Errorf("expected interpolated offset 2, got %d", off)
	}
	if probes != 0 || geom.probes != 0 {
		t.Errorf("expected no probes inside a tab, got %d", probes)
	}
}

func TestLocateReturnsFragment(t *testing.T) {
	line := document.ParseLine("ab", 4)
	loc := New(&cellGeometry{line: line, y: 3})

	pos, err := loc.Locate(line, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Fragment != line.At(0) || pos.Offset != 1 {
		t.Errorf("expected (text, 1), got (%v, %d)", pos.Fragment, pos.Offset)
	}
}

func TestLocateOutside(t *testing.T) {
	line := document.ParseLine("ab", 4)
	loc := New(&cellGeometry{line: line, y: 3})

	if _, err := loc.Locate(line, 1, 4); !errors.Is(err, ErrOutside) {
		t.Errorf("expected ErrOutside below line, got %v", err)
	}
	other := document.ParseLine("zz", 4)
	if _, err := loc.Locate(other, 1, 3); !errors.Is(err, ErrOutside) {
		t.Errorf("expected ErrOutside for unknown line, got %v", err)
	}
}

func TestLocateEmptyLine(t *testing.T) {
	line := document.ParseLine("", 4)
	loc := New(&cellGeometry{line: line})

	pos, err := loc.Locate(line, 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Fragment != nil || pos.Offset != 0 {
		t.Errorf("expected append sentinel, got (%v, %d)", pos.Fragment, pos.Offset)
	}
}

func TestLocatePrefersNative(t *testing.T) {
	line := document.ParseLine("abcdef", 4)
	geom := &nativeGeometry{cellGeometry: cellGeometry{line: line}}
	loc := New(geom)

	pos, err := loc.Locate(line, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if geom.calls != 1 || geom.probes != 0 {
		t.Errorf("expected native call and no probes, got calls=%d probes=%d", geom.calls, geom.probes)
	}
	if pos.Offset != 4 {
		t.Errorf("expected offset 4, got %d", pos.Offset)
	}
}

func TestLocateWithoutNative(t *testing.T) {
	line := document.ParseLine("abcdef", 4)
	geom := &nativeGeometry{cellGeometry: cellGeometry{line: line}}
	loc := New(geom, WithoutNative())

	pos, err := loc.Locate(line, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if geom.calls != 0 || geom.probes == 0 {
		t.Errorf("expected probe search, got calls=%d probes=%d", geom.calls, geom.probes)
	}
	if pos.Offset != 4 {
		t.Errorf("expected offset 4, got %d", pos.Offset)
	}
}

func TestSnapTab(t *testing.T) {
	line := document.ParseLine("a\tb", 4)
	geom := &cellGeometry{line: line}
	tab := line.At(1)

	tests := []struct {
		x    int
		want int
	}{
		{1, 0},
		{2, 0},
		{3, 4},
		{4, 4},
	}
	for _, tt := range tests {
		got := SnapTab(geom, document.Position{Fragment: tab, Offset: 2}, tt.x)
		if got.Fragment != tab || got.Offset != tt.want {
			t.Errorf("x=%d: expected offset %d, got %d", tt.x, tt.want, got.Offset)
		}
	}

	text := document.Position{Fragment: line.At(0), Offset: 1}
	if got := SnapTab(geom, text, 3); got != text {
		t.Errorf("non-tab position changed: %v", got)
	}
}
