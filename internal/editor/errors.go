package editor

import "errors"

// ErrNotMountable indicates a host that cannot carry an editor.
var ErrNotMountable = errors.New("host not mountable")
