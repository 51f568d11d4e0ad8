package form

// PageState is the one-shot tab and scroll position saved before navigation.
type PageState struct {
	ActiveTab string
	Scroll    map[string]int
}

// Tabs is a tab set with exactly one active tab.
type Tabs struct {
	ids    []string
	active string
}

// NewTabs declares the tab set. The first tab starts active.
func NewTabs(ids ...string) *Tabs {
	t := &Tabs{ids: append([]string{}, ids...)}
	if len(t.ids) > 0 {
		t.active = t.ids[0]
	}
	return t
}

// IDs returns the declared tabs in order.
func (t *Tabs) IDs() []string {
	return append([]string{}, t.ids...)
}

// Active returns the active tab id.
func (t *Tabs) Active() string {
	return t.active
}

// Has reports whether id is a declared tab.
func (t *Tabs) Has(id string) bool {
	for _, declared := range t.ids {
		if declared == id {
			return true
		}
	}
	return false
}

// Activate makes id the active tab. Unknown ids leave the state unchanged.
func (t *Tabs) Activate(id string) bool {
	if !t.Has(id) {
		return false
	}
	t.active = id
	return true
}
