// Package renderer projects an editor onto a terminal backend.
//
// The document model knows nothing about the screen. Each frame the renderer
// walks the visible lines of a Scene, lays them out into cells, resolves the
// cells' structural classes through the theme, and sends the difference
// from the previous frame to the backend:
//
//	┌──────────────────────────────────────────┐
//	│  Renderer: Scene -> ScreenBuffer         │
//	├──────────────────────────────────────────┤
//	│  layout │ gutter │ cursor │ style        │
//	├──────────────────────────────────────────┤
//	│  Backend: tcell terminal │ null backend  │
//	└──────────────────────────────────────────┘
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b)
//	r.Render(editor.Scene(), time.Now())
package renderer
