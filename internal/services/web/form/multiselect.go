package form

// Event names a multi-select notification.
type Event string

const (
	// EventAddItem fires after a value joins the selection.
	EventAddItem Event = "addItem"
	// EventRemoveItem fires after a value leaves the selection.
	EventRemoveItem Event = "removeItem"
)

// MultiSelect is a searchable multi-value selection over a populated option set.
type MultiSelect interface {
	// Populate replaces the option set. Selected values that are no longer
	// offered are dropped.
	Populate(options []Option)
	// Value returns the selection in selection order.
	Value() []string
	// SetValue replaces the selection without firing events. Values outside
	// the option set are skipped.
	SetValue(values []string)
	// Add selects value and fires EventAddItem.
	Add(value string) bool
	// Remove deselects value and fires EventRemoveItem.
	Remove(value string) bool
	// On registers handler for event.
	On(event Event, handler func(value string))
	// Search returns options whose label contains query, case-insensitively,
	// with their selection state. An empty query returns every option.
	Search(query string) []Option
	// Destroy releases the option set, selection, and handlers.
	Destroy()
}

// Hooks re-apply language-specific text after the document changes. Both
// must be idempotent.
type Hooks interface {
	SetLanguageTags(doc *Document)
	UpdateLocalizedText(doc *Document)
}

// NopHooks does nothing.
type NopHooks struct{}

func (NopHooks) SetLanguageTags(*Document)     {}
func (NopHooks) UpdateLocalizedText(*Document) {}
