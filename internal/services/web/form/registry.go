package form

// Registry tracks every rendered control by name in registration order.
// Save and restore consult it instead of walking the document.
type Registry struct {
	order    []string
	controls map[string]*Control
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{controls: map[string]*Control{}}
}

// Register adds or replaces the control under its name.
func (r *Registry) Register(c *Control) {
	if c == nil || c.Name == "" {
		return
	}
	if _, ok := r.controls[c.Name]; !ok {
		r.order = append(r.order, c.Name)
	}
	r.controls[c.Name] = c
}

// Unregister removes the control registered under name.
func (r *Registry) Unregister(name string) {
	if _, ok := r.controls[name]; !ok {
		return
	}
	delete(r.controls, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the control registered under name.
func (r *Registry) Lookup(name string) (*Control, bool) {
	c, ok := r.controls[name]
	return c, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string{}, r.order...)
}

// Len reports the number of registered controls.
func (r *Registry) Len() int {
	return len(r.order)
}

// Snapshot reads every registered control.
func (r *Registry) Snapshot() Snapshot {
	out := make(Snapshot, len(r.order))
	for _, name := range r.order {
		out[name] = r.controls[name].Read()
	}
	return out
}
