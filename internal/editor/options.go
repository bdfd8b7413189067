package editor

import (
	"time"

	"github.com/dshills/tinyedit/internal/engine/cursor"
	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/logging"
)

// TextSource is an external plain-text element bound to the editor. When
// set, its value replaces the host text and the source is hidden.
type TextSource interface {
	Value() string
	Hide()
}

// Options configures an editor.
type Options struct {
	// TabWidth is the expansion width of tabs.
	TabWidth int
	// TabStyle selects how tabs serialize.
	TabStyle document.TabStyle
	// Textarea optionally supplies the initial text.
	Textarea TextSource
	// FirstLineNumber is the gutter number of the first line. Nil means 1.
	FirstLineNumber *int
	// LineBreak joins lines on serialization.
	LineBreak string
	// ReadOnly disables pointer input, so no cursor is ever placed.
	ReadOnly bool

	// GutterMinWidth is the minimum number of digit columns.
	GutterMinWidth int

	// ResetDelay is how long cursors stay solid after an edit.
	ResetDelay time.Duration
	// Scheduler runs the deferred blink reset. Nil uses timers.
	Scheduler cursor.Scheduler

	Hooks  Hooks
	Logger *logging.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		TabWidth:        4,
		TabStyle:        document.TabHard,
		FirstLineNumber: LineNumber(1),
		LineBreak:       "\n",
		GutterMinWidth:  3,
	}
}

// LineNumber returns a pointer to n for Options.FirstLineNumber.
func LineNumber(n int) *int {
	return &n
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.TabWidth < 1 {
		o.TabWidth = d.TabWidth
	}
	if o.TabStyle == document.TabUnset {
		o.TabStyle = d.TabStyle
	}
	if o.FirstLineNumber == nil {
		o.FirstLineNumber = d.FirstLineNumber
	} else {
		o.FirstLineNumber = LineNumber(*o.FirstLineNumber)
	}
	if o.LineBreak == "" {
		o.LineBreak = d.LineBreak
	}
	if o.GutterMinWidth < 0 {
		o.GutterMinWidth = 0
	}
	if o.Logger == nil {
		o.Logger = logging.Null()
	}
	return o
}

// ValueOptions overrides serialization settings for one Value call. Zero
// fields inherit the editor's options.
type ValueOptions struct {
	TabWidth  int
	TabStyle  document.TabStyle
	LineBreak string
}

// Hooks are optional callbacks for input the editor does not handle
// itself.
type Hooks struct {
	// GutterClick receives the line number of a clicked gutter row.
	GutterClick func(e *Editor, number int)
	// Abort is called on Escape.
	Abort func(e *Editor)
	// Mounted is called once after a successful mount.
	Mounted func(e *Editor)
}
