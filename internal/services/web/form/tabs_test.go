package form

import "testing"

func TestTabsStartOnFirstAndIgnoreUnknown(t *testing.T) {
	t.Parallel()

	tabs := NewTabs("character", "slots", "factions")
	if tabs.Active() != "character" {
		t.Fatalf("initial tab = %q, want character", tabs.Active())
	}
	if tabs.Activate("results") {
		t.Fatal("expected unknown tab to be rejected")
	}
	if tabs.Active() != "character" {
		t.Fatalf("active tab = %q after rejected switch", tabs.Active())
	}
	if !tabs.Activate("factions") || tabs.Active() != "factions" {
		t.Fatalf("active tab = %q, want factions", tabs.Active())
	}
	if got := NewTabs().Active(); got != "" {
		t.Fatalf("empty tab set active = %q", got)
	}
}
