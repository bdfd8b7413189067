// Package cursor owns the cursor markers of an editor and the single input
// proxy that captures keyboard focus on their behalf.
//
// A cursor is a zero-width document.Fragment of kind KindCursor. The
// Manager creates cursors, tracks which ones are active, binds the shared
// InputProxy to one of them, and tears them down again. Removing a cursor
// detaches it from its line and re-merges the text runs it separated.
//
// Blink handling is two-phased. ResetBlink clears the blink flag on every
// active cursor immediately and schedules one deferred Task that turns it
// back on. Calls made while that task is pending coalesce into it, so a
// burst of keystrokes restarts the blink animation once.
//
// A Manager is not safe for concurrent use. All calls, including the
// deferred blink callback, must run on one goroutine; applications with an
// event loop supply a Scheduler that posts callbacks onto that loop.
package cursor
