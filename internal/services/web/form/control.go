package form

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
)

// ControlKind is the rendered input type.
type ControlKind string

const (
	ControlNumber      ControlKind = "number"
	ControlText        ControlKind = "text"
	ControlCheckbox    ControlKind = "checkbox"
	ControlSelect      ControlKind = "select"
	ControlMultiSelect ControlKind = "multiselect"
)

// Option is one selectable entry of a select or multi-select.
type Option struct {
	Value        string
	LabelKey     string
	DefaultLabel string
	Label        string
	Tag          string
	Selected     bool
}

// Control is one rendered form control.
type Control struct {
	Name         string
	Kind         ControlKind
	LabelKey     string
	DefaultLabel string
	Label        string
	Lang         string

	Value   string
	Checked bool
	Options []Option

	HasBounds bool
	Min       int
	Max       int

	// Widget backs multi-select controls; it owns the selection.
	Widget MultiSelect
}

// Read returns the control's current value.
func (c *Control) Read() Value {
	switch c.Kind {
	case ControlCheckbox:
		return Bool(c.Checked)
	case ControlMultiSelect:
		if c.Widget == nil {
			return List()
		}
		return List(c.Widget.Value()...)
	default:
		return Text(c.Value)
	}
}

// Apply sets the control from a stored value. Values whose shape does not fit
// the control and select values outside the option set are rejected with
// KindInvalidInput and leave the control unchanged. Number controls hold any
// text, as an input field does while being edited; bounds apply on submit.
func (c *Control) Apply(v Value) error {
	switch c.Kind {
	case ControlCheckbox:
		b, ok := v.AsBool()
		if !ok {
			return c.shapeError(v)
		}
		c.Checked = b
	case ControlMultiSelect:
		items, ok := v.AsList()
		if !ok {
			return c.shapeError(v)
		}
		if c.Widget == nil {
			return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q has no options loaded", c.Name))
		}
		c.Widget.SetValue(items)
	case ControlSelect:
		s, ok := v.AsText()
		if !ok {
			return c.shapeError(v)
		}
		if !c.hasOption(s) {
			return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q has no option %q", c.Name, s))
		}
		c.selectOption(s)
	default:
		s, ok := v.AsText()
		if !ok {
			return c.shapeError(v)
		}
		c.Value = s
	}
	return nil
}

// Input applies a raw user edit as the browser reports it.
func (c *Control) Input(raw string) error {
	if c.Kind == ControlCheckbox {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "on", "1":
			return c.Apply(Bool(true))
		case "false", "off", "0", "":
			return c.Apply(Bool(false))
		default:
			return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q expects a boolean", c.Name))
		}
	}
	if c.Kind == ControlMultiSelect {
		return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q is edited through add and remove", c.Name))
	}
	return c.Apply(Text(raw))
}

// CurrentOptions returns the options with selection state as it stands now.
func (c *Control) CurrentOptions() []Option {
	if c.Kind == ControlMultiSelect && c.Widget != nil {
		return c.Widget.Search("")
	}
	return slices.Clone(c.Options)
}

func (c *Control) hasOption(value string) bool {
	for _, o := range c.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func (c *Control) selectOption(value string) {
	c.Value = value
	for i := range c.Options {
		c.Options[i].Selected = c.Options[i].Value == value
	}
}

func (c *Control) shapeError(v Value) error {
	return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q (%s) cannot hold a %s value", c.Name, c.Kind, v.Kind()))
}
