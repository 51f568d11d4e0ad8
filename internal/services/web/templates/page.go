package templates

import (
	"github.com/gdresist/optimizer/internal/services/web/catalog"
	"github.com/gdresist/optimizer/internal/services/web/form"
	webi18n "github.com/gdresist/optimizer/internal/services/web/i18n"
	"github.com/gdresist/optimizer/internal/services/web/submission"
)

const (
	// ScrollFieldName carries the window offset on submit.
	ScrollFieldName  = "scroll"
	FormElementID    = "optimizer-form"
	tabPanelIDPrefix = "tab-"
)

// PageView is everything the optimizer page renders.
type PageView struct {
	Lang      string
	Loc       Localizer
	Catalog   *catalog.Catalog
	Doc       *form.Document
	Tabs      []string
	ActiveTab string
	// ScrollY is the offset the page script restores for the active tab.
	ScrollY   int
	Languages []webi18n.LanguageOption
	Summary   *submission.OptimizeInput
	// ErrorKey names a localized message shown above the form.
	ErrorKey string
}

// TabPanelID returns the element id of a tab's content panel.
func TabPanelID(tab string) string {
	return tabPanelIDPrefix + tab
}

func containersFor(c *catalog.Catalog, tab string) []string {
	if c == nil {
		return nil
	}
	for _, t := range c.Tabs {
		if t.ID == tab {
			return t.Containers
		}
	}
	return nil
}

func lookupContainer(view PageView, id string) (*form.Container, bool) {
	return view.Doc.Container(id)
}

func inputType(kind form.ControlKind) string {
	if kind == form.ControlNumber {
		return "number"
	}
	return "text"
}
