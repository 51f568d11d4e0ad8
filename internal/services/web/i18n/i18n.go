// Package i18n resolves the request language and localizes rendered
// documents.
package i18n

import (
	"net/http"
	"strings"
	"time"

	platformi18n "github.com/gdresist/optimizer/internal/platform/i18n"
	"github.com/gdresist/optimizer/internal/services/web/form"
	"github.com/gdresist/optimizer/internal/services/web/routepath"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = routepath.LanguageQueryKey
	// LangCookieName stores the user's language preference.
	LangCookieName = "gd_lang"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag      string
	LabelKey string
	URL      string
	Active   bool
}

// Default returns the default language tag.
func Default() language.Tag {
	return platformi18n.DefaultTag()
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag picks the request language from the lang query parameter, then
// the language cookie, then Accept-Language. The bool reports whether the
// query parameter chose it and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := platformi18n.ParseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOptions lists the supported languages for the switcher.
func LanguageOptions(active language.Tag) []LanguageOption {
	activeLocale := platformi18n.LocaleFor(active)
	supported := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		locale := platformi18n.LocaleFor(tag)
		options = append(options, LanguageOption{
			Tag:      locale,
			LabelKey: "lang." + strings.ToLower(strings.ReplaceAll(locale, "-", "_")),
			URL:      routepath.LanguageSwitch(locale),
			Active:   locale == activeLocale,
		})
	}
	return options
}

// Translate returns the message for key in tag, or fallback when the
// catalogs have no translation.
func Translate(printer *message.Printer, key, fallback string) string {
	key = strings.TrimSpace(key)
	if printer == nil || key == "" {
		return fallback
	}
	value := strings.TrimSpace(printer.Sprintf(key))
	if value == "" || value == key {
		return fallback
	}
	return value
}

// Hooks localizes a document in the language recorded on it.
type Hooks struct{}

var _ form.Hooks = Hooks{}

// SetLanguageTags normalizes the document language and stamps it on every
// control.
func (Hooks) SetLanguageTags(doc *form.Document) {
	if doc == nil {
		return
	}
	tag, _ := platformi18n.ParseTag(doc.Lang)
	doc.Lang = platformi18n.LocaleFor(tag)
	for _, c := range doc.Controls() {
		c.Lang = doc.Lang
	}
}

// UpdateLocalizedText re-applies labels for the document language. Keys with
// no translation keep the catalog label.
func (Hooks) UpdateLocalizedText(doc *form.Document) {
	if doc == nil {
		return
	}
	tag, _ := platformi18n.ParseTag(doc.Lang)
	printer := Printer(tag)
	for _, c := range doc.Controls() {
		c.Label = Translate(printer, c.LabelKey, c.DefaultLabel)
		for i := range c.Options {
			o := &c.Options[i]
			o.Label = Translate(printer, o.LabelKey, o.DefaultLabel)
		}
	}
}
