package edit

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tinyedit/internal/engine/document"
)

type countingBlinker struct {
	resets int
}

func (b *countingBlinker) ResetBlink() {
	b.resets++
}

func shape(l *document.Line) []string {
	var out []string
	for _, f := range l.Fragments() {
		switch f.Kind() {
		case document.KindText:
			out = append(out, f.Text())
		case document.KindTab:
			out = append(out, fmt.Sprintf("<tab%d>", f.Width()))
		case document.KindCursor:
			out = append(out, "|")
		default:
			out = append(out, "?")
		}
	}
	return out
}

// setup parses text and places a cursor at offset n.
func setup(t *testing.T, text string, n int) (*document.Line, *document.Fragment) {
	t.Helper()
	l := document.ParseLine(text, 4)
	c := document.NewCursor()
	if _, err := l.SplitAtOffset(n, c); err != nil {
		t.Fatalf("place cursor: %v", err)
	}
	return l, c
}

func TestInsertCharacter(t *testing.T) {
	tests := []struct {
		name string
		text string
		at   int
		ins  string
		want []string
	}{
		{"middle", "ab", 1, "X", []string{"aX", "|", "b"}},
		{"start", "ab", 0, "X", []string{"X", "|", "ab"}},
		{"end", "ab", 2, "X", []string{"abX", "|"}},
		{"empty line", "", 0, "X", []string{"X", "|"}},
		{"after tab", "\tb", 4, "X", []string{"<tab4>", "X", "|", "b"}},
		{"wide", "ab", 1, "界", []string{"a界", "|", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, c := setup(t, tt.text, tt.at)
			e := New(nil)
			if err := e.InsertCharacter(c, tt.ins); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, shape(l)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsertTab(t *testing.T) {
	l, c := setup(t, "ab", 1)
	e := New(nil, WithTabWidth(2))
	if err := e.InsertTab(c); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "<tab2>", "|", "b"}, shape(l)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := e.InsertCharacter(c, "Y"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "<tab2>", "Y", "|", "b"}, shape(l)); diff != "" {
		t.Errorf("mismatch after typing (-want +got):\n%s", diff)
	}
}

func TestInsertText(t *testing.T) {
	l, c := setup(t, "ab", 1)
	e := New(nil)
	if err := e.InsertText(c, "x\ty\r\nz"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ax", "<tab4>", "yz", "|", "b"}, shape(l)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteCharacter(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		at      int
		dir     Direction
		deleted bool
		want    []string
	}{
		{"backward middle", "abc", 2, Backward, true, []string{"a", "|", "c"}},
		{"forward middle", "abc", 1, Forward, true, []string{"a", "|", "c"}},
		{"backward empties run", "ab", 1, Backward, true, []string{"|", "b"}},
		{"forward empties run", "ab", 1, Forward, true, []string{"a", "|"}},
		{"backward at start", "a", 0, Backward, false, []string{"|", "a"}},
		{"forward at end", "a", 1, Forward, false, []string{"a", "|"}},
		{"backward tab", "a\tb", 5, Backward, true, []string{"a", "|", "b"}},
		{"forward tab", "a\tb", 1, Forward, true, []string{"a", "|", "b"}},
		{"backward cluster", "e\u0301x", 2, Backward, true, []string{"|", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, c := setup(t, tt.text, tt.at)
			e := New(nil)
			deleted, err := e.DeleteCharacter(c, tt.dir)
			if err != nil {
				t.Fatal(err)
			}
			if deleted != tt.deleted {
				t.Errorf("expected deleted=%v, got %v", tt.deleted, deleted)
			}
			if diff := cmp.Diff(tt.want, shape(l)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if err := l.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestMoveHorizontal(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		at    int
		dir   Direction
		moved bool
		want  []string
	}{
		{"left", "abc", 2, Backward, true, []string{"a", "|", "bc"}},
		{"right", "abc", 1, Forward, true, []string{"ab", "|", "c"}},
		{"left to start", "ab", 1, Backward, true, []string{"|", "ab"}},
		{"right to end", "ab", 1, Forward, true, []string{"ab", "|"}},
		{"left at start", "ab", 0, Backward, false, []string{"|", "ab"}},
		{"right at end", "ab", 2, Forward, false, []string{"ab", "|"}},
		{"left over tab", "a\tb", 5, Backward, true, []string{"a", "|", "<tab4>", "b"}},
		{"right over tab", "a\tb", 1, Forward, true, []string{"a", "<tab4>", "|", "b"}},
		{"right over cluster", "e\u0301x", 0, Forward, true, []string{"e\u0301", "|", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, c := setup(t, tt.text, tt.at)
			e := New(nil)
			moved, err := e.MoveHorizontal(c, tt.dir)
			if err != nil {
				t.Fatal(err)
			}
			if moved != tt.moved {
				t.Errorf("expected moved=%v, got %v", tt.moved, moved)
			}
			if diff := cmp.Diff(tt.want, shape(l)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if err := l.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestOperationsResetBlink(t *testing.T) {
	b := &countingBlinker{}
	e := New(b)
	_, c := setup(t, "ab", 1)

	_ = e.InsertCharacter(c, "x")
	_ = e.InsertTab(c)
	_ = e.InsertText(c, "yz")
	_, _ = e.DeleteCharacter(c, Backward)
	_, _ = e.MoveHorizontal(c, Forward)
	_, _ = e.MoveHorizontal(c, Forward)

	if b.resets != 6 {
		t.Errorf("expected 6 blink resets, got %d", b.resets)
	}
}

func TestErrors(t *testing.T) {
	e := New(nil)
	if err := e.InsertCharacter(document.NewText("x"), "y"); !errors.Is(err, ErrNotCursor) {
		t.Errorf("expected ErrNotCursor, got %v", err)
	}
	if _, err := e.DeleteCharacter(document.NewCursor(), Forward); !errors.Is(err, ErrDetached) {
		t.Errorf("expected ErrDetached, got %v", err)
	}
}

func TestMergeInvariantHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := New(nil)

	for round := 0; round < 50; round++ {
		l, c := setup(t, "ab\tcd", rng.Intn(3))
		other := document.NewCursor()
		if err := l.Append(other); err != nil {
			t.Fatal(err)
		}

		for step := 0; step < 40; step++ {
			var err error
			switch rng.Intn(6) {
			case 0:
				err = e.InsertCharacter(c, string(rune('a'+rng.Intn(26))))
			case 1:
				err = e.InsertTab(c)
			case 2:
				_, err = e.DeleteCharacter(c, Backward)
			case 3:
				_, err = e.DeleteCharacter(c, Forward)
			case 4:
				_, err = e.MoveHorizontal(c, Backward)
			case 5:
				_, err = e.MoveHorizontal(c, Forward)
			}
			if err != nil {
				t.Fatalf("round %d step %d: %v", round, step, err)
			}
			if err := l.Validate(); err != nil {
				t.Fatalf("round %d step %d: %v in %v", round, step, err, shape(l))
			}
		}
	}
}

func TestMoveKeepsText(t *testing.T) {
	l, c := setup(t, "a\tbc", 0)
	e := New(nil)
	want := l.String()

	for i := 0; i < 8; i++ {
		if _, err := e.MoveHorizontal(c, Forward); err != nil {
			t.Fatal(err)
		}
		if l.String() != want {
			t.Fatalf("text changed after move %d: %q", i, l.String())
		}
	}
	if l.Next(c) != nil {
		t.Error("expected cursor at end of line")
	}
	for i := 0; i < 8; i++ {
		if _, err := e.MoveHorizontal(c, Backward); err != nil {
			t.Fatal(err)
		}
	}
	if l.Prev(c) != nil {
		t.Error("expected cursor at start of line")
	}
}
