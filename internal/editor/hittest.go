package editor

import (
	"image"

	"github.com/dshills/tinyedit/internal/engine/document"
)

// Region is the part of the editor a point falls in.
type Region int

const (
	RegionNone Region = iota
	RegionContent
	RegionGutter
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case RegionContent:
		return "content"
	case RegionGutter:
		return "gutter"
	default:
		return "none"
	}
}

// Target classifies what lies under a point.
type Target int

const (
	// TargetOutside is a point on no line.
	TargetOutside Target = iota
	// TargetTextRun is a point on a character of a text run.
	TargetTextRun
	// TargetTab is a point on a tab.
	TargetTab
	// TargetCursor is a point on a cursor marker.
	TargetCursor
	// TargetLineBoundary is a point on a line but past its content, or on
	// the gutter row of a line.
	TargetLineBoundary
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetTextRun:
		return "text"
	case TargetTab:
		return "tab"
	case TargetCursor:
		return "cursor"
	case TargetLineBoundary:
		return "line-boundary"
	default:
		return "outside"
	}
}

// Hit is the classification of a pointer position.
type Hit struct {
	Region Region
	Target Target

	// Point is the document-absolute position.
	Point image.Point

	// Row is the document row under the point.
	Row int

	Line     *document.Line
	Fragment *document.Fragment
}

// HitTest classifies the viewport point p.
func (e *Editor) HitTest(p image.Point) Hit {
	bounds := e.host.Bounds()
	if !p.In(bounds) {
		return Hit{Region: RegionNone, Target: TargetOutside, Point: e.translator.ToAbsolute(p)}
	}

	abs := e.translator.ToAbsolute(p)
	h := Hit{Point: abs, Row: p.Y - bounds.Min.Y + e.view.Offset().Y}
	h.Line = e.doc.Line(h.Row)

	if p.X < bounds.Min.X+e.gutter.Width() {
		h.Region = RegionGutter
		h.Target = TargetLineBoundary
		if h.Line == nil {
			h.Target = TargetOutside
		}
		return h
	}

	h.Region = RegionContent
	if h.Line == nil {
		h.Target = TargetOutside
		return h
	}
	if c := e.layout.CursorAt(h.Line, abs.X); c != nil {
		h.Target, h.Fragment = TargetCursor, c
		return h
	}
	f := e.layout.FragmentAt(h.Line, abs.X)
	switch {
	case f == nil:
		h.Target = TargetLineBoundary
	case f.Kind() == document.KindTab:
		h.Target, h.Fragment = TargetTab, f
	default:
		h.Target, h.Fragment = TargetTextRun, f
	}
	return h
}
