package templates

import (
	"strings"

	"github.com/gdresist/optimizer/internal/services/web/catalog"
	"github.com/gdresist/optimizer/internal/services/web/submission"
)

var resistanceColumns = []string{"summary.resistance", "summary.current", "summary.target", "summary.gap"}

func unavailableSlots(in *submission.OptimizeInput) []string {
	return append(append([]string{}, in.UnavailableComponentSlots...), in.UnavailableAugmentSlots...)
}

func blacklisted(in *submission.OptimizeInput) []string {
	return append(append([]string{}, in.ComponentBlacklist...), in.AugmentBlacklist...)
}

func standingLabel(loc Localizer, c *catalog.Catalog, key string) string {
	if c != nil {
		if group, ok := c.Group("faction-dropdowns-section"); ok {
			for _, o := range group.Options {
				if o.Key == key {
					return translateOr(loc, o.LabelKey, o.Label)
				}
			}
		}
	}
	return key
}

func templateLabel(loc Localizer, c *catalog.Catalog, key string) string {
	if c != nil {
		if group, ok := c.Group("template"); ok {
			for _, e := range group.Entries {
				if e.Key == key {
					return translateOr(loc, e.LabelKey, e.Label)
				}
			}
		}
	}
	return key
}

func joinOrNone(loc Localizer, items []string) string {
	if len(items) == 0 {
		return T(loc, "summary.none")
	}
	return strings.Join(items, ", ")
}
