package cursor

import "github.com/dshills/tinyedit/internal/engine/document"

// InputProxy is the invisible focus target that receives keyboard input for
// the cursor that owns it. There is one per Manager; binding it to a new
// cursor revokes the previous owner.
type InputProxy struct {
	owner   *document.Fragment
	focused bool
	onBlur  func()
}

// Owner returns the cursor currently bound to the proxy, or nil.
func (p *InputProxy) Owner() *document.Fragment {
	return p.owner
}

// Focused reports whether the proxy holds focus.
func (p *InputProxy) Focused() bool {
	return p.focused
}

// Focus gives the proxy focus.
func (p *InputProxy) Focus() {
	p.focused = true
}

// Blur drops focus and runs the blur handler once.
func (p *InputProxy) Blur() {
	if !p.focused {
		return
	}
	p.focused = false
	if h := p.onBlur; h != nil {
		p.onBlur = nil
		h()
	}
}

func (p *InputProxy) release() {
	p.onBlur = nil
	p.owner = nil
	p.focused = false
}
