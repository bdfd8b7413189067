// Package layout projects document lines onto terminal cells.
//
// Text runes take their display width in cells, tabs take their fixed
// expansion width, and cursor and probe fragments take none. The Engine
// answers geometry queries against that projection, which is what the caret
// locator probes.
package layout

import (
	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/renderer/core"
	"github.com/dshills/tinyedit/internal/renderer/style"
)

// LineLayout is the cell projection of one line.
type LineLayout struct {
	// Cells holds the drawn cells; wide runes are followed by a
	// continuation cell.
	Cells []core.Cell

	// Cursors maps each cursor fragment on the line to its column.
	Cursors map[*document.Fragment]int

	// Width is the number of columns the line occupies.
	Width int
}

// Layout projects l. Cell styles are left default; the renderer resolves
// them from the cell class.
func Layout(l *document.Line) LineLayout {
	out := LineLayout{Cursors: map[*document.Fragment]int{}}
	for _, f := range l.Fragments() {
		switch f.Kind() {
		case document.KindText:
			for _, r := range f.Text() {
				w := core.RuneWidth(r)
				if w == 0 {
					continue
				}
				out.Cells = append(out.Cells, core.Cell{Rune: r, Width: w, Style: core.DefaultStyle(), Class: style.ClassLine})
				if w == 2 {
					out.Cells = append(out.Cells, core.ContinuationCell())
				}
			}
		case document.KindTab:
			for range f.Width() {
				out.Cells = append(out.Cells, core.Cell{Rune: ' ', Width: 1, Style: core.DefaultStyle(), Class: style.ClassTab})
			}
		case document.KindCursor:
			out.Cursors[f] = len(out.Cells)
		}
	}
	out.Width = len(out.Cells)
	return out
}

// Columns returns the column at which each fragment of l starts and the
// column just past the line.
func Columns(l *document.Line) (starts []int, end int) {
	frags := l.Fragments()
	starts = make([]int, len(frags))
	col := 0
	for i, f := range frags {
		starts[i] = col
		col += FragmentWidth(f)
	}
	return starts, col
}

// FragmentWidth returns the number of columns f occupies.
func FragmentWidth(f *document.Fragment) int {
	switch f.Kind() {
	case document.KindText:
		w := 0
		for _, r := range f.Text() {
			w += core.RuneWidth(r)
		}
		return w
	case document.KindTab:
		return f.Width()
	default:
		return 0
	}
}

// OffsetAtColumn returns the largest character offset in l whose left edge
// is at or before col. Offsets inside a tab map one to one onto its columns.
func OffsetAtColumn(l *document.Line, col int) int {
	if col <= 0 {
		return 0
	}
	offset, x := 0, 0
	for _, f := range l.Fragments() {
		switch f.Kind() {
		case document.KindText:
			for _, r := range f.Text() {
				w := core.RuneWidth(r)
				if x+w > col {
					return offset
				}
				x += w
				offset++
			}
		case document.KindTab:
			w := f.Width()
			if x+w > col {
				return offset + (col - x)
			}
			x += w
			offset += w
		}
	}
	return offset
}

// ColumnAtOffset returns the column of the boundary at character offset n.
func ColumnAtOffset(l *document.Line, n int) int {
	offset, x := 0, 0
	for _, f := range l.Fragments() {
		if offset >= n {
			break
		}
		switch f.Kind() {
		case document.KindText:
			for _, r := range f.Text() {
				if offset >= n {
					break
				}
				x += core.RuneWidth(r)
				offset++
			}
		case document.KindTab:
			step := min(f.Width(), n-offset)
			x += step
			offset += step
		}
	}
	return x
}
