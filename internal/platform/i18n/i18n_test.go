package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		want   language.Tag
		wantOK bool
	}{
		{value: "en-US", want: language.AmericanEnglish, wantOK: true},
		{value: "pt-BR", want: language.BrazilianPortuguese, wantOK: true},
		{value: "pt", want: language.BrazilianPortuguese, wantOK: true},
		{value: "", want: language.AmericanEnglish, wantOK: false},
		{value: "not a tag!", want: language.AmericanEnglish, wantOK: false},
		{value: "ja", want: language.AmericanEnglish, wantOK: false},
	}
	for _, tc := range tests {
		got, ok := ParseTag(tc.value)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParseTag(%q) = %v, %t; want %v, %t", tc.value, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestMatchTagsFallsBackToDefault(t *testing.T) {
	t.Parallel()

	if got := MatchTags(nil); got != DefaultTag() {
		t.Fatalf("MatchTags(nil) = %v, want %v", got, DefaultTag())
	}
	if got := MatchTags([]language.Tag{language.Portuguese}); got != language.BrazilianPortuguese {
		t.Fatalf("MatchTags(pt) = %v, want pt-BR", got)
	}
}

func TestLocaleFor(t *testing.T) {
	t.Parallel()

	if got := LocaleFor(language.BrazilianPortuguese); got != "pt-BR" {
		t.Fatalf("LocaleFor(pt-BR) = %q", got)
	}
	if got := LocaleFor(language.Japanese); got != "en-US" {
		t.Fatalf("LocaleFor(ja) = %q", got)
	}
}

func TestSupportedTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	tags := SupportedTags()
	tags[0] = language.Japanese
	if SupportedTags()[0] != language.AmericanEnglish {
		t.Fatal("SupportedTags leaked internal slice")
	}
}
