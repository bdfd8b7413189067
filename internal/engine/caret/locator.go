// Package caret maps a screen coordinate to a character position inside a
// line.
//
// When the geometry provider can answer the question directly (it implements
// PointLocator) the Locator delegates to it. Otherwise it binary-searches the
// line by inserting a zero-width probe fragment at candidate offsets and
// reading the probe's bounds back from the geometry, converging in at most
// ceil(log2(L+1)) probe insertions for a line of length L. Every probe is
// removed before control returns, and the text runs it separated are merged
// again.
package caret

import (
	"errors"
	"fmt"
	"image"

	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/logging"
)

var (
	// ErrOutside indicates a coordinate that does not fall on the line.
	ErrOutside = errors.New("coordinate outside line")

	// ErrNoGeometry indicates the geometry provider could not measure a
	// fragment.
	ErrNoGeometry = errors.New("fragment has no geometry")
)

// Geometry reports the on-screen bounds of lines and fragments. Bounds are
// in the same coordinate space as the points passed to Locate. Zero-width
// fragments report an empty rectangle whose Min is their position.
type Geometry interface {
	LineBounds(l *document.Line) (image.Rectangle, bool)
	FragmentBounds(f *document.Fragment) (image.Rectangle, bool)
}

// PointLocator is implemented by geometry providers that can resolve a
// point to a position natively.
type PointLocator interface {
	CaretFromPoint(l *document.Line, x, y int) (document.Position, bool)
}

// Locator resolves points to line positions.
type Locator struct {
	geom     Geometry
	native   PointLocator
	logger   *logging.Logger
	noNative bool
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(loc *Locator) {
		loc.logger = l
	}
}

// WithoutNative forces the probe search even when the geometry provider
// implements PointLocator.
func WithoutNative() Option {
	return func(loc *Locator) {
		loc.noNative = true
	}
}

// New creates a Locator over geom.
func New(geom Geometry, opts ...Option) *Locator {
	loc := &Locator{geom: geom, logger: logging.Null()}
	for _, opt := range opts {
		opt(loc)
	}
	if pl, ok := geom.(PointLocator); ok && !loc.noNative {
		loc.native = pl
	}
	loc.logger = loc.logger.WithComponent("caret")
	return loc
}

// Locate returns the position on line nearest to (x, y). The returned
// position may point strictly inside a tab; callers decide which side of
// the tab to use with SnapTab.
func (loc *Locator) Locate(line *document.Line, x, y int) (document.Position, error) {
	bounds, ok := loc.geom.LineBounds(line)
	if !ok || y < bounds.Min.Y || y >= bounds.Max.Y {
		return document.Position{}, ErrOutside
	}

	if loc.native != nil {
		if pos, ok := loc.native.CaretFromPoint(line, x, y); ok {
			return pos, nil
		}
		loc.logger.Debug("native lookup failed at (%d,%d), probing", x, y)
	}

	offset, probes, err := loc.Search(line, x)
	if err != nil {
		return document.Position{}, err
	}
	loc.logger.WithFields(map[string]any{"offset": offset, "probes": probes}).Debug("located")
	return line.FragmentAtOffset(offset)
}

// Search returns the largest offset in [0, line length] whose left edge is
// at or before x, together with the number of probes it inserted.
func (loc *Locator) Search(line *document.Line, x int) (offset, probes int, err error) {
	lo, hi := 0, line.Len()
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		px, probed, err := loc.measure(line, mid)
		if probed {
			probes++
		}
		if err != nil {
			return 0, probes, err
		}
		if px <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, probes, nil
}

// measure returns the x coordinate of the boundary at offset n. Offsets
// strictly inside a tab are interpolated from the tab's bounds, since a tab
// cannot be split by a probe.
func (loc *Locator) measure(line *document.Line, n int) (x int, probed bool, err error) {
	pos, err := line.FragmentAtOffset(n)
	if err != nil {
		return 0, false, err
	}
	if f := pos.Fragment; f != nil && f.Kind() == document.KindTab && pos.Offset > 0 && pos.Offset < f.Len() {
		r, ok := loc.geom.FragmentBounds(f)
		if !ok {
			return 0, false, ErrNoGeometry
		}
		return r.Min.X + r.Dx()*pos.Offset/f.Len(), false, nil
	}

	probe := document.NewProbe()
	if _, err := line.InsertAtPosition(pos, probe); err != nil {
		return 0, false, fmt.Errorf("insert probe: %w", err)
	}
	r, ok := loc.geom.FragmentBounds(probe)
	if err := line.RemoveAndMerge(probe); err != nil {
		return 0, true, fmt.Errorf("remove probe: %w", err)
	}
	if !ok {
		return 0, true, ErrNoGeometry
	}
	return r.Min.X, true, nil
}

// SnapTab resolves a position strictly inside a tab to the tab edge on the
// same side of the tab's midpoint as x. Other positions are returned as is.
func SnapTab(geom Geometry, pos document.Position, x int) document.Position {
	f := pos.Fragment
	if f == nil || f.Kind() != document.KindTab || pos.Offset == 0 || pos.Offset == f.Len() {
		return pos
	}
	r, ok := geom.FragmentBounds(f)
	if !ok {
		return pos
	}
	if 2*x >= r.Min.X+r.Max.X {
		return document.Position{Fragment: f, Offset: f.Len()}
	}
	return document.Position{Fragment: f, Offset: 0}
}
