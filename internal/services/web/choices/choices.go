// Package choices implements the searchable multi-select used for the
// blacklist fields.
package choices

import (
	"log"
	"slices"
	"strings"

	"github.com/gdresist/optimizer/internal/services/web/form"
	"golang.org/x/text/cases"
)

// Select is a searchable multi-select. It is not safe for concurrent use;
// callers serialize access the same way they serialize the owning page.
type Select struct {
	name      string
	logger    *log.Logger
	options   []form.Option
	index     map[string]int
	selected  []string
	handlers  map[form.Event][]func(string)
	destroyed bool
	fold      cases.Caser
}

var _ form.MultiSelect = (*Select)(nil)

// New returns an empty multi-select for the named field. logger defaults to
// log.Default().
func New(name string, logger *log.Logger) *Select {
	if logger == nil {
		logger = log.Default()
	}
	return &Select{
		name:     name,
		logger:   logger,
		index:    map[string]int{},
		handlers: map[form.Event][]func(string){},
		fold:     cases.Fold(),
	}
}

// Populate replaces the option set. Duplicate values keep their first
// occurrence for lookups but are all listed.
func (s *Select) Populate(options []form.Option) {
	if s.destroyed {
		return
	}
	s.options = slices.Clone(options)
	s.index = make(map[string]int, len(options))
	for i, o := range s.options {
		if _, ok := s.index[o.Value]; !ok {
			s.index[o.Value] = i
		}
	}
	kept := s.selected[:0]
	for _, v := range s.selected {
		if _, ok := s.index[v]; ok {
			kept = append(kept, v)
		}
	}
	s.selected = kept
}

// Value returns the selection in selection order.
func (s *Select) Value() []string {
	return slices.Clone(s.selected)
}

// SetValue replaces the selection without firing events. Values that are not
// options are dropped and logged.
func (s *Select) SetValue(values []string) {
	if s.destroyed {
		return
	}
	s.selected = s.selected[:0]
	for _, v := range values {
		if _, ok := s.index[v]; !ok {
			s.logger.Printf("drop stored item field=%s value=%q", s.name, v)
			continue
		}
		if slices.Contains(s.selected, v) {
			continue
		}
		s.selected = append(s.selected, v)
	}
}

// Add selects value and fires EventAddItem. It reports false when value is
// not an option or is already selected.
func (s *Select) Add(value string) bool {
	if s.destroyed {
		return false
	}
	if _, ok := s.index[value]; !ok || slices.Contains(s.selected, value) {
		return false
	}
	s.selected = append(s.selected, value)
	s.emit(form.EventAddItem, value)
	return true
}

// Remove deselects value and fires EventRemoveItem.
func (s *Select) Remove(value string) bool {
	if s.destroyed {
		return false
	}
	idx := slices.Index(s.selected, value)
	if idx < 0 {
		return false
	}
	s.selected = slices.Delete(s.selected, idx, idx+1)
	s.emit(form.EventRemoveItem, value)
	return true
}

// On registers handler for event.
func (s *Select) On(event form.Event, handler func(string)) {
	if s.destroyed || handler == nil {
		return
	}
	s.handlers[event] = append(s.handlers[event], handler)
}

// Search returns options whose label or tag contains query, ignoring case.
func (s *Select) Search(query string) []form.Option {
	needle := s.fold.String(strings.TrimSpace(query))
	out := make([]form.Option, 0, len(s.options))
	for _, o := range s.options {
		if needle != "" && !strings.Contains(s.fold.String(o.Label), needle) && !strings.Contains(s.fold.String(o.Tag), needle) {
			continue
		}
		o.Selected = slices.Contains(s.selected, o.Value)
		out = append(out, o)
	}
	return out
}

// Destroy drops options, selection, and handlers. A destroyed select ignores
// every later call.
func (s *Select) Destroy() {
	s.options = nil
	s.index = map[string]int{}
	s.selected = nil
	s.handlers = map[form.Event][]func(string){}
	s.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (s *Select) Destroyed() bool {
	return s.destroyed
}

func (s *Select) emit(event form.Event, value string) {
	for _, handler := range s.handlers[event] {
		handler(value)
	}
}
