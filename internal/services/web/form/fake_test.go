package form

import "slices"

// fakeMultiSelect is a minimal in-package MultiSelect for renderer and
// control tests.
type fakeMultiSelect struct {
	options   []Option
	selected  []string
	handlers  map[Event][]func(string)
	destroyed bool
}

func (f *fakeMultiSelect) Populate(options []Option) { f.options = slices.Clone(options) }
func (f *fakeMultiSelect) Value() []string           { return slices.Clone(f.selected) }

func (f *fakeMultiSelect) SetValue(values []string) {
	f.selected = nil
	for _, v := range values {
		for _, o := range f.options {
			if o.Value == v {
				f.selected = append(f.selected, v)
				break
			}
		}
	}
}

func (f *fakeMultiSelect) Add(value string) bool {
	f.selected = append(f.selected, value)
	for _, h := range f.handlers[EventAddItem] {
		h(value)
	}
	return true
}

func (f *fakeMultiSelect) Remove(value string) bool {
	idx := slices.Index(f.selected, value)
	if idx < 0 {
		return false
	}
	f.selected = slices.Delete(f.selected, idx, idx+1)
	for _, h := range f.handlers[EventRemoveItem] {
		h(value)
	}
	return true
}

func (f *fakeMultiSelect) On(event Event, handler func(string)) {
	if f.handlers == nil {
		f.handlers = map[Event][]func(string){}
	}
	f.handlers[event] = append(f.handlers[event], handler)
}

func (f *fakeMultiSelect) Search(string) []Option {
	out := slices.Clone(f.options)
	for i := range out {
		out[i].Selected = slices.Contains(f.selected, out[i].Value)
	}
	return out
}

func (f *fakeMultiSelect) Destroy() { f.destroyed = true }

type countingHooks struct {
	tags  int
	texts int
}

func (h *countingHooks) SetLanguageTags(*Document)     { h.tags++ }
func (h *countingHooks) UpdateLocalizedText(*Document) { h.texts++ }
