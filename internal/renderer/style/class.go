// Package style names the structural classes the editor emits and maps
// them to terminal styles through a Theme.
package style

// Namespace prefixes every structural class name.
const Namespace = "tinyedit"

// Structural classes.
const (
	ClassContainer    = "container"
	ClassContent      = "content"
	ClassContentInner = "content-inner"
	ClassGutter       = "gutter"
	ClassGutterInner  = "gutter-inner"
	ClassLine         = "line"
	ClassTab          = "tab"
	ClassCursor       = "cursor"
	ClassBlink        = "blink"
	ClassInput        = "input"
)

// Classes lists every structural class in drawing order, outermost first.
var Classes = []string{
	ClassContainer,
	ClassContent,
	ClassContentInner,
	ClassGutter,
	ClassGutterInner,
	ClassLine,
	ClassTab,
	ClassCursor,
	ClassBlink,
	ClassInput,
}

// ClassName returns the namespaced form of class.
func ClassName(class string) string {
	return Namespace + "-" + class
}
