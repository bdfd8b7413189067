package editor

import "image"

// Host is the area an editor mounts on. The marker identifies a mounted
// host across Mount calls.
type Host interface {
	Text() string
	Bounds() image.Rectangle
	Marker() string
	SetMarker(id string)
}

// Pane is a rectangular screen area with initial text.
type Pane struct {
	text   string
	bounds image.Rectangle
	marker string
}

// NewPane creates a pane.
func NewPane(text string, bounds image.Rectangle) *Pane {
	return &Pane{text: text, bounds: bounds}
}

func (p *Pane) Text() string                { return p.text }
func (p *Pane) Bounds() image.Rectangle     { return p.bounds }
func (p *Pane) Marker() string              { return p.marker }
func (p *Pane) SetMarker(id string)         { p.marker = id }
func (p *Pane) SetBounds(r image.Rectangle) { p.bounds = r }
