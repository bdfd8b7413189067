package editor

// Key identifies a key the editor reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyBackspace
	KeyDelete
	KeyTab
	KeyEnter
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyEvent is a key press delivered to the input proxy.
type KeyEvent struct {
	Key  Key
	Rune rune
}

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyTab:
		return "tab"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "none"
	}
}
