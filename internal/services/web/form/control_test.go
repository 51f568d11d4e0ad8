package form

import (
	"testing"

	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
)

func TestControlApplyRejectsMismatchedShapes(t *testing.T) {
	t.Parallel()

	checkbox := &Control{Name: "component-head", Kind: ControlCheckbox}
	if err := checkbox.Apply(List("x")); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("Apply(list) on checkbox err = %v, want invalid input", err)
	}
	if checkbox.Checked {
		t.Fatal("checkbox changed after rejected apply")
	}
	if err := checkbox.Apply(Bool(true)); err != nil || !checkbox.Checked {
		t.Fatalf("Apply(true) err = %v checked = %t", err, checkbox.Checked)
	}

	text := &Control{Name: "note", Kind: ControlText}
	if err := text.Apply(Bool(true)); err == nil {
		t.Fatal("expected bool rejected by text control")
	}
}

func TestControlApplyNumberKeepsEditedText(t *testing.T) {
	t.Parallel()

	number := &Control{Name: "current-fire", Kind: ControlNumber, Value: "40", HasBounds: true, Min: 0, Max: 300}
	for _, raw := range []string{"", "-", "301", "1.5", "75"} {
		if err := number.Input(raw); err != nil {
			t.Fatalf("Input(%q): %v", raw, err)
		}
		if number.Value != raw {
			t.Fatalf("value = %q, want %q", number.Value, raw)
		}
	}
	if err := number.Apply(Bool(true)); err == nil {
		t.Fatal("expected bool rejected by number control")
	}
	if number.Value != "75" {
		t.Fatalf("value = %q after rejected apply, want 75", number.Value)
	}
}

func TestControlApplySelectRequiresKnownOption(t *testing.T) {
	t.Parallel()

	sel := &Control{
		Name:  "standing-rovers",
		Kind:  ControlSelect,
		Value: "revered",
		Options: []Option{
			{Value: "friendly"},
			{Value: "revered", Selected: true},
		},
	}
	if err := sel.Apply(Text("exalted")); err == nil {
		t.Fatal("expected unknown option to be rejected")
	}
	if err := sel.Apply(Text("friendly")); err != nil {
		t.Fatalf("Apply(friendly): %v", err)
	}
	if sel.Value != "friendly" || !sel.Options[0].Selected || sel.Options[1].Selected {
		t.Fatalf("select state = %q %#v", sel.Value, sel.Options)
	}
	if got, _ := sel.Read().AsText(); got != "friendly" {
		t.Fatalf("Read = %q, want friendly", got)
	}
}

func TestControlMultiSelectReadsWidget(t *testing.T) {
	t.Parallel()

	empty := &Control{Name: "component_blacklist", Kind: ControlMultiSelect}
	if items, ok := empty.Read().AsList(); !ok || len(items) != 0 {
		t.Fatalf("Read without widget = %v, %t", items, ok)
	}
	if err := empty.Apply(List("a")); err == nil {
		t.Fatal("expected apply without widget to fail")
	}

	widget := &fakeMultiSelect{}
	widget.Populate([]Option{{Value: "Scaled Hide"}, {Value: "Wardstone"}})
	ms := &Control{Name: "component_blacklist", Kind: ControlMultiSelect, Widget: widget}
	if err := ms.Apply(List("Wardstone", "Unknown")); err != nil {
		t.Fatalf("Apply list: %v", err)
	}
	if items, _ := ms.Read().AsList(); len(items) != 1 || items[0] != "Wardstone" {
		t.Fatalf("Read = %v, want [Wardstone]", items)
	}
	if err := ms.Input("Wardstone"); err == nil {
		t.Fatal("expected Input on a multi-select to be rejected")
	}
	options := ms.CurrentOptions()
	if len(options) != 2 || options[0].Selected || !options[1].Selected {
		t.Fatalf("CurrentOptions = %#v", options)
	}
}

func TestControlInputCheckboxValues(t *testing.T) {
	t.Parallel()

	c := &Control{Name: "augment-belt", Kind: ControlCheckbox}
	for raw, want := range map[string]bool{"on": true, "true": true, "false": false, "": false} {
		if err := c.Input(raw); err != nil {
			t.Fatalf("Input(%q): %v", raw, err)
		}
		if c.Checked != want {
			t.Fatalf("Input(%q) checked = %t, want %t", raw, c.Checked, want)
		}
	}
	if err := c.Input("maybe"); err == nil {
		t.Fatal("expected non-boolean input to be rejected")
	}
}
