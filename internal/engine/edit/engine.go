// Package edit implements character-level editing around a cursor
// fragment: insertion, deletion and horizontal movement.
//
// Operations only touch the fragments neighbouring the cursor and keep the
// line's merge invariant: two text runs are never adjacent. Tabs move and
// delete as one unit. A "character" inside a text run is one grapheme
// cluster. At a line boundary delete and move do nothing.
package edit

import (
	"strings"
	"unicode"

	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/logging"
)

// DefaultTabWidth is the width of inserted tabs.
const DefaultTabWidth = 4

// Direction selects the side of the cursor an operation applies to.
type Direction int

const (
	// Backward is towards the start of the line.
	Backward Direction = iota
	// Forward is towards the end of the line.
	Forward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Blinker restarts the cursor blink after an edit. cursor.Manager
// implements it.
type Blinker interface {
	ResetBlink()
}

// Engine applies edits around cursors.
type Engine struct {
	blinker  Blinker
	tabWidth int
	logger   *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTabWidth sets the width of inserted tabs.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine. blinker may be nil.
func New(blinker Blinker, opts ...Option) *Engine {
	e := &Engine{
		blinker:  blinker,
		tabWidth: DefaultTabWidth,
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("edit")
	return e
}

// TabWidth returns the width of inserted tabs.
func (e *Engine) TabWidth() int {
	return e.tabWidth
}

// SetTabWidth changes the width of tabs inserted from now on.
func (e *Engine) SetTabWidth(width int) {
	if width > 0 {
		e.tabWidth = width
	}
}

// InsertCharacter appends text to the run immediately before the cursor,
// creating the run if the cursor is not preceded by one.
func (e *Engine) InsertCharacter(c *document.Fragment, text string) error {
	defer e.resetBlink()
	line, err := lineOf(c)
	if err != nil {
		return err
	}
	return insertRun(line, c, text)
}

// InsertText inserts pasted text before the cursor. Tab characters become
// tab fragments; line breaks and other control characters are dropped.
func (e *Engine) InsertText(c *document.Fragment, text string) error {
	defer e.resetBlink()
	line, err := lineOf(c)
	if err != nil {
		return err
	}

	var run strings.Builder
	flush := func() error {
		if run.Len() == 0 {
			return nil
		}
		err := insertRun(line, c, run.String())
		run.Reset()
		return err
	}
	for _, r := range text {
		switch {
		case r == '\t':
			if err := flush(); err != nil {
				return err
			}
			if err := line.InsertBefore(document.NewTab(e.tabWidth), c); err != nil {
				return err
			}
		case unicode.IsControl(r):
		default:
			run.WriteRune(r)
		}
	}
	return flush()
}

// InsertTab inserts a tab fragment immediately before the cursor.
func (e *Engine) InsertTab(c *document.Fragment) error {
	defer e.resetBlink()
	line, err := lineOf(c)
	if err != nil {
		return err
	}
	return line.InsertBefore(document.NewTab(e.tabWidth), c)
}

// DeleteCharacter removes one character on the given side of the cursor.
// It reports whether anything was removed.
func (e *Engine) DeleteCharacter(c *document.Fragment, dir Direction) (bool, error) {
	defer e.resetBlink()
	line, err := lineOf(c)
	if err != nil {
		return false, err
	}

	f := neighbour(line, c, dir)
	if f == nil {
		e.logger.Debug("delete %s at line boundary", dir)
		return false, nil
	}
	if f.Kind() == document.KindTab {
		return true, line.RemoveAndMerge(f)
	}

	if dir == Backward {
		head, _ := splitLastCluster(f.Text())
		f.SetText(head)
	} else {
		_, rest := splitFirstCluster(f.Text())
		f.SetText(rest)
	}
	if f.Text() == "" {
		return true, line.RemoveAndMerge(f)
	}
	return true, nil
}

// MoveHorizontal moves the cursor one character in dir by transferring that
// character from one side of the cursor to the other. It reports whether the
// cursor moved.
func (e *Engine) MoveHorizontal(c *document.Fragment, dir Direction) (bool, error) {
	defer e.resetBlink()
	line, err := lineOf(c)
	if err != nil {
		return false, err
	}

	f := neighbour(line, c, dir)
	if f == nil {
		e.logger.Debug("move %s at line boundary", dir)
		return false, nil
	}

	if f.Kind() == document.KindTab {
		if err := line.Remove(f); err != nil {
			return false, err
		}
		if dir == Backward {
			return true, line.InsertAfter(f, c)
		}
		return true, line.InsertBefore(f, c)
	}

	var moved string
	if dir == Backward {
		var head string
		head, moved = splitLastCluster(f.Text())
		f.SetText(head)
	} else {
		var rest string
		moved, rest = splitFirstCluster(f.Text())
		f.SetText(rest)
	}
	if f.Text() == "" {
		if err := line.RemoveAndMerge(f); err != nil {
			return false, err
		}
	}

	if dir == Backward {
		if next := line.Next(c); next.IsText() {
			next.Prepend(moved)
			return true, nil
		}
		return true, line.InsertAfter(document.NewText(moved), c)
	}
	if prev := line.Prev(c); prev.IsText() {
		prev.Append(moved)
		return true, nil
	}
	return true, line.InsertBefore(document.NewText(moved), c)
}

func (e *Engine) resetBlink() {
	if e.blinker != nil {
		e.blinker.ResetBlink()
	}
}

func lineOf(c *document.Fragment) (*document.Line, error) {
	if c == nil || c.Kind() != document.KindCursor {
		return nil, ErrNotCursor
	}
	line := c.Line()
	if line == nil {
		return nil, ErrDetached
	}
	return line, nil
}

// neighbour returns the nearest fragment with content on the dir side of c,
// stepping over other zero-width fragments.
func neighbour(line *document.Line, c *document.Fragment, dir Direction) *document.Fragment {
	f := c
	for {
		if dir == Backward {
			f = line.Prev(f)
		} else {
			f = line.Next(f)
		}
		if f == nil || f.Len() > 0 {
			return f
		}
	}
}

func insertRun(line *document.Line, c *document.Fragment, text string) error {
	if text == "" {
		return nil
	}
	if prev := line.Prev(c); prev.IsText() {
		prev.Append(text)
		return nil
	}
	return line.InsertBefore(document.NewText(text), c)
}
