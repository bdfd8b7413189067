// Package document provides the in-memory Line/Fragment model that backs an
// editor surface.
//
// A Document is an ordered list of Lines. Each Line owns an ordered sequence
// of Fragments:
//
//   - Text: a mutable run of characters
//   - Tab: an atomic pseudo-element with a fixed expansion width
//   - Cursor: a zero-width insertion marker
//   - Probe: a zero-width measuring marker used by the caret locator
//
// # Merge Invariant
//
// Two Text fragments are never adjacent in a Line. Every operation that could
// produce two neighbouring Text fragments merges them, unless a Tab, Cursor
// or Probe separates them. Tabs never merge with anything.
//
// # Offsets
//
// Offsets are counted in characters (runes). A Tab contributes its expansion
// width to the length of a line; zero-width fragments contribute nothing.
//
// # Thread Safety
//
// The model is not safe for concurrent use. It is meant to be mutated from a
// single event loop.
package document
