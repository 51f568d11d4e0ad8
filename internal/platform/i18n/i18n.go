// Package i18n defines the languages the service supports.
package i18n

import (
	"strings"

	"github.com/gdresist/optimizer/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

var (
	defaultTag    = language.AmericanEnglish
	supportedTags = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}
	matcher       = language.NewMatcher(supportedTags)
)

// SupportedTags returns a copy of the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return defaultTag
}

// ParseTag parses value and reports whether it names a supported language.
// Base-language matches are accepted, so "pt" resolves to pt-BR.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultTag, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return defaultTag, false
	}
	matched, _, confidence := matcher.Match(tag)
	if confidence < language.High {
		return defaultTag, false
	}
	return supportedFor(matched), true
}

// MatchTags picks the best supported tag for an Accept-Language preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return defaultTag
	}
	matched, _, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return defaultTag
	}
	return supportedFor(matched)
}

// LocaleFor returns the catalog locale identifier for tag.
func LocaleFor(tag language.Tag) string {
	locale := supportedFor(tag).String()
	if !catalog.Default().HasLocale(locale) {
		return catalog.BaseLocale
	}
	return locale
}

// supportedFor strips matcher extensions (e.g. "-u-rg-...") so callers get
// one of the declared tags back.
func supportedFor(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		if supported == tag {
			return supported
		}
	}
	for _, supported := range supportedTags {
		supportedBase, _ := supported.Base()
		if supportedBase == base {
			return supported
		}
	}
	return defaultTag
}
