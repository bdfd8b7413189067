package core

import "image"

// ScrollSource reports the current scroll offset of a scrolled surface.
type ScrollSource interface {
	ScrollOffset() image.Point
}

// Translator converts between viewport-relative points, as delivered by
// mouse events, and document-absolute points, which the layout works in.
type Translator struct {
	src ScrollSource
}

// NewTranslator creates a translator reading offsets from src.
func NewTranslator(src ScrollSource) Translator {
	return Translator{src: src}
}

// ToAbsolute adds the scroll offset.
func (t Translator) ToAbsolute(p image.Point) image.Point {
	if t.src == nil {
		return p
	}
	return p.Add(t.src.ScrollOffset())
}

// ToRelative subtracts the scroll offset.
func (t Translator) ToRelative(p image.Point) image.Point {
	if t.src == nil {
		return p
	}
	return p.Sub(t.src.ScrollOffset())
}

// FixedScroll is a constant ScrollSource.
type FixedScroll image.Point

// ScrollOffset returns p.
func (p FixedScroll) ScrollOffset() image.Point {
	return image.Point(p)
}
