package submission

import (
	"net/url"
	"slices"
	"testing"

	"github.com/gdresist/optimizer/internal/services/web/catalog"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
)

func TestParseAppliesDefaultsForAbsentFields(t *testing.T) {
	t.Parallel()

	in, err := Parse(url.Values{}, catalog.MustDefault())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.CharacterLevel != DefaultCharacterLevel || in.WeaponTemplate != "one-hand-shield" {
		t.Fatalf("level = %d template = %q", in.CharacterLevel, in.WeaponTemplate)
	}
	if len(in.Resistances) != 9 {
		t.Fatalf("resistances = %d, want 9", len(in.Resistances))
	}
	for _, r := range in.Resistances {
		if r.Current != DefaultCurrent || r.Target != DefaultTarget || r.Gap != DefaultTarget-DefaultCurrent {
			t.Fatalf("resistance %s = %#v", r.Type, r)
		}
	}
	if len(in.Standings) != 13 || in.Standings[0].Standing != "revered" {
		t.Fatalf("standings = %#v", in.Standings)
	}
	if in.UnavailableComponentSlots != nil || in.ComponentBlacklist != nil {
		t.Fatal("expected no slots or blacklist by default")
	}
}

func TestParseReadsSubmittedForm(t *testing.T) {
	t.Parallel()

	values := url.Values{
		"char-level":          {"94"},
		"template":            {"two-hand-melee"},
		"current-fire":        {"75"},
		"target-fire":         {"80"},
		"current-cold":        {"90"},
		"target-cold":         {"80"},
		"component-head":      {"on"},
		"component-ring2":     {"on"},
		"augment-medal":       {"on"},
		"component_blacklist": {"Scaled Hide", " ", "Wardstone"},
		"standing-rovers":     {"friendly"},
	}
	in, err := Parse(values, catalog.MustDefault())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.CharacterLevel != 94 || in.WeaponTemplate != "two-hand-melee" {
		t.Fatalf("level = %d template = %q", in.CharacterLevel, in.WeaponTemplate)
	}
	fire, cold := in.Resistances[0], in.Resistances[1]
	if fire.Type != "fire" || fire.Gap != 5 || fire.Label != "Fire" {
		t.Fatalf("fire = %#v", fire)
	}
	if cold.Gap != 0 {
		t.Fatalf("cold gap = %d, want 0 when above target", cold.Gap)
	}
	if !in.HasGaps() {
		t.Fatal("expected gaps")
	}
	if !slices.Equal(in.UnavailableComponentSlots, []string{"head", "ring2"}) {
		t.Fatalf("component slots = %v", in.UnavailableComponentSlots)
	}
	if !slices.Equal(in.UnavailableAugmentSlots, []string{"medal"}) {
		t.Fatalf("augment slots = %v", in.UnavailableAugmentSlots)
	}
	if !slices.Equal(in.ComponentBlacklist, []string{"Scaled Hide", "Wardstone"}) {
		t.Fatalf("blacklist = %v", in.ComponentBlacklist)
	}
	if in.Standings[1].Faction != "rovers" || in.Standings[1].Standing != "friendly" {
		t.Fatalf("rovers standing = %#v", in.Standings[1])
	}
}

func TestParseRejectsNonNumericValues(t *testing.T) {
	t.Parallel()

	_, err := Parse(url.Values{"current-fire": {"lots"}}, catalog.MustDefault())
	if !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
	if apperrors.LocalizationKey(err) != "error.invalid_number" {
		t.Fatalf("key = %q", apperrors.LocalizationKey(err))
	}
}
