// Package gutter keeps the line-number column in step with the number of
// content lines.
//
// Rows are derived state: row i always reads firstLineNumber+i. Update
// diffs the wanted count against the current one and only appends or
// trims the difference.
package gutter

import "sync"

// Config holds gutter configuration.
type Config struct {
	// FirstLineNumber is the number shown on the first row.
	FirstLineNumber int

	// MinWidth is the minimum number of digit columns.
	MinWidth int
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		FirstLineNumber: 1,
		MinWidth:        3,
	}
}

// Gutter is the line-number column.
type Gutter struct {
	mu     sync.RWMutex
	config Config
	rows   []int
}

// New creates an empty gutter.
func New(config Config) *Gutter {
	return &Gutter{config: config}
}

// Config returns the configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig replaces the configuration. A new first line number renumbers
// every row.
func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	renumber := config.FirstLineNumber != g.config.FirstLineNumber
	g.config = config
	if renumber {
		for i := range g.rows {
			g.rows[i] = config.FirstLineNumber + i
		}
	}
}

// Update brings the row count to lineCount and reports how many rows were
// added and removed.
func (g *Gutter) Update(lineCount int) (added, removed int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	lineCount = max(lineCount, 0)
	for len(g.rows) < lineCount {
		g.rows = append(g.rows, g.config.FirstLineNumber+len(g.rows))
		added++
	}
	for len(g.rows) > lineCount {
		g.rows = g.rows[:len(g.rows)-1]
		removed++
	}
	return added, removed
}

// Len returns the number of rows.
func (g *Gutter) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rows)
}

// Rows returns the row numbers.
func (g *Gutter) Rows() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]int, len(g.rows))
	copy(out, g.rows)
	return out
}

// Row returns the number of row i.
func (g *Gutter) Row(i int) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.rows) {
		return 0, false
	}
	return g.rows[i], true
}

// Width returns the column width of the gutter: the digits of the widest
// number, at least MinWidth, plus one separator column.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.numberWidth() + 1
}

// RenderRow returns row i right-aligned with its trailing separator. Rows
// past the end render blank.
func (g *Gutter) RenderRow(i int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	w := g.numberWidth()
	if i < 0 || i >= len(g.rows) {
		return PadLeft("", w+1)
	}
	return PadLeft(FormatNumber(g.rows[i]), w) + " "
}

func (g *Gutter) numberWidth() int {
	widest := g.config.FirstLineNumber
	if n := len(g.rows); n > 0 {
		widest = max(g.rows[0], g.rows[n-1])
	}
	return max(countDigits(widest), g.config.MinWidth, 1)
}
