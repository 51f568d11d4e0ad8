// Package submission parses a submitted optimizer form into typed input and
// reports each resistance's gap to its target.
package submission

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gdresist/optimizer/internal/services/web/catalog"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
)

// Defaults applied when a field is absent from the submission.
const (
	DefaultCharacterLevel = 100
	DefaultCurrent        = 20
	DefaultTarget         = 80
)

const (
	currentPrefix   = "current-"
	targetPrefix    = "target-"
	componentPrefix = "component-"
	augmentPrefix   = "augment-"
)

// Resistance is one damage type's current value, target, and shortfall.
type Resistance struct {
	Type     string
	Label    string
	LabelKey string
	Current  int
	Target   int
	Gap      int
}

// Standing is one faction's selected reputation.
type Standing struct {
	Faction  string
	LabelKey string
	Label    string
	Standing string
}

// OptimizeInput is the typed form submission.
type OptimizeInput struct {
	CharacterLevel            int
	WeaponTemplate            string
	Resistances               []Resistance
	UnavailableComponentSlots []string
	UnavailableAugmentSlots   []string
	ComponentBlacklist        []string
	AugmentBlacklist          []string
	Standings                 []Standing
}

// HasGaps reports whether any resistance is below its target.
func (in OptimizeInput) HasGaps() bool {
	for _, r := range in.Resistances {
		if r.Gap > 0 {
			return true
		}
	}
	return false
}

// Parse reads values using the catalog to know which fields exist. Numbers
// that do not parse are rejected with KindInvalidInput naming the field.
func Parse(values url.Values, c *catalog.Catalog) (OptimizeInput, error) {
	var in OptimizeInput

	level, err := intField(values, "char-level", DefaultCharacterLevel)
	if err != nil {
		return OptimizeInput{}, err
	}
	in.CharacterLevel = level

	if template, ok := c.Group("template"); ok {
		in.WeaponTemplate = strings.TrimSpace(values.Get(template.Name))
		if in.WeaponTemplate == "" {
			in.WeaponTemplate = template.Default
		}
	}

	if current, ok := c.Group("resistances-section"); ok {
		for _, e := range current.Entries {
			damageType := strings.TrimPrefix(e.Key, currentPrefix)
			cur, err := intField(values, e.Key, DefaultCurrent)
			if err != nil {
				return OptimizeInput{}, err
			}
			target, err := intField(values, targetPrefix+damageType, DefaultTarget)
			if err != nil {
				return OptimizeInput{}, err
			}
			in.Resistances = append(in.Resistances, Resistance{
				Type:     damageType,
				Label:    e.Label,
				LabelKey: e.LabelKey,
				Current:  cur,
				Target:   target,
				Gap:      max(0, target-cur),
			})
		}
	}

	in.UnavailableComponentSlots = checkedSlots(values, c, "component-slots-section", componentPrefix)
	in.UnavailableAugmentSlots = checkedSlots(values, c, "augment-slots-section", augmentPrefix)
	in.ComponentBlacklist = listField(values, "component_blacklist")
	in.AugmentBlacklist = listField(values, "augment_blacklist")

	if factions, ok := c.Group("faction-dropdowns-section"); ok {
		for _, e := range factions.Entries {
			standing := strings.TrimSpace(values.Get(e.Key))
			if standing == "" {
				standing = factions.DefaultFor(e)
			}
			in.Standings = append(in.Standings, Standing{
				Faction:  strings.TrimPrefix(e.Key, "standing-"),
				LabelKey: e.LabelKey,
				Label:    e.Label,
				Standing: standing,
			})
		}
	}
	return in, nil
}

func intField(values url.Values, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_number", fmt.Sprintf("field %q must be a whole number", name))
	}
	return n, nil
}

func checkedSlots(values url.Values, c *catalog.Catalog, groupID, prefix string) []string {
	group, ok := c.Group(groupID)
	if !ok {
		return nil
	}
	var slots []string
	for _, e := range group.Entries {
		switch strings.ToLower(strings.TrimSpace(values.Get(e.Key))) {
		case "on", "true", "1":
			slots = append(slots, strings.TrimPrefix(e.Key, prefix))
		}
	}
	return slots
}

func listField(values url.Values, name string) []string {
	var out []string
	for _, v := range values[name] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
