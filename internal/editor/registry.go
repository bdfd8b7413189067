package editor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/tinyedit/internal/logging"
)

// Registry maps host markers to mounted editors.
type Registry struct {
	mu      sync.Mutex
	editors map[string]*Editor
	logger  *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Null()
	}
	return &Registry{
		editors: make(map[string]*Editor),
		logger:  logger.WithComponent("registry"),
	}
}

// Mount creates an editor on host, or returns the editor already mounted
// there. A nil host or one with an empty area is not mountable.
func (r *Registry) Mount(host Host, opts Options) (*Editor, error) {
	if host == nil || host.Bounds().Empty() {
		return nil, ErrNotMountable
	}

	r.mu.Lock()
	if id := host.Marker(); id != "" {
		if e, ok := r.editors[id]; ok {
			r.mu.Unlock()
			return e, nil
		}
	}
	id := uuid.NewString()
	host.SetMarker(id)
	e := newEditor(id, host, opts)
	r.editors[id] = e
	r.mu.Unlock()

	r.logger.Info("mounted editor %s", id)
	if h := e.opts.Hooks.Mounted; h != nil {
		h(e)
	}
	return e, nil
}

// Lookup returns the editor mounted on host.
func (r *Registry) Lookup(host Host) (*Editor, bool) {
	if host == nil || host.Marker() == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[host.Marker()]
	return e, ok
}

// Unmount closes the editor on host and clears the marker. It reports
// whether an editor was mounted.
func (r *Registry) Unmount(host Host) bool {
	e, ok := r.Lookup(host)
	if !ok {
		return false
	}
	r.mu.Lock()
	delete(r.editors, e.id)
	r.mu.Unlock()
	host.SetMarker("")
	e.Close()
	r.logger.Info("unmounted editor %s", e.id)
	return true
}

// Editors returns the mounted editors.
func (r *Registry) Editors() []*Editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Editor, 0, len(r.editors))
	for _, e := range r.editors {
		out = append(out, e)
	}
	return out
}

// Close unmounts every editor.
func (r *Registry) Close() {
	r.mu.Lock()
	editors := r.editors
	r.editors = make(map[string]*Editor)
	r.mu.Unlock()
	for _, e := range editors {
		e.host.SetMarker("")
		e.Close()
	}
}
