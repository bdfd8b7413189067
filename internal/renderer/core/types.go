// Package core provides the cell, style and coordinate types shared by the
// renderer packages and the backend.
package core

import (
	"fmt"
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Attribute is a set of text attributes.
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // faint text
	AttrUnderline           // underlined text
	AttrBlink               // terminal-driven blinking
	AttrReverse             // swap fg/bg
)

// Has reports whether a contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a true color or the terminal default.
type Color struct {
	R, G, B uint8
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rrggbb" or "#rgb". The empty string and "default"
// yield ColorDefault.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" || strings.EqualFold(hex, "default") {
		return ColorDefault, nil
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// String returns "default" or "#RRGGBB".
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the terminal default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// With returns s with attr added.
func (s Style) With(attr Attribute) Style {
	s.Attributes |= attr
	return s
}

// Merge overlays other on s. Default colors in other do not override.
func (s Style) Merge(other Style) Style {
	if !other.Foreground.Default {
		s.Foreground = other.Foreground
	}
	if !other.Background.Default {
		s.Background = other.Background
	}
	s.Attributes |= other.Attributes
	return s
}

// Cell is one terminal cell.
type Cell struct {
	Rune  rune
	Width int
	Style Style
	// Class is the structural class of the element drawn in the cell.
	Class string
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// ContinuationCell returns the trailing cell of a wide rune.
func ContinuationCell() Cell {
	return Cell{Style: DefaultStyle()}
}

// IsContinuation reports whether c is the trailing half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals reports whether two cells draw identically.
func (c Cell) Equals(other Cell) bool {
	return c == other
}

// RuneWidth returns the number of cells r occupies.
func RuneWidth(r rune) int {
	if r < 0x20 || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns the number of cells s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Rect is a shorthand for image.Rect.
func Rect(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(x0, y0, x1, y1)
}
