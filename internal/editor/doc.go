// Package editor is the editor controller: it mounts an editor on a host
// area, routes pointer, key, paste and focus input into the engine, and
// serializes the document back to text.
//
// An Editor owns all of its state. There are no package-level registries;
// a Registry is created per application and maps host markers to editors.
//
// Pointer input arrives in viewport coordinates. The controller converts it
// to document-absolute coordinates, classifies the target, and for content
// clicks asks the caret locator for a position, places a fresh cursor there
// and binds the input proxy to it. Keys then act on the focused cursor
// through the edit engine.
package editor
