package templates

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

func TestTWithoutLocalizerEchoesKey(t *testing.T) {
	t.Parallel()

	if got := T(nil, "page.title"); got != "page.title" {
		t.Fatalf("T(nil, ...) = %q, want %q", got, "page.title")
	}
	if got := T(nil, "level %d", 3); got != "level 3" {
		t.Fatalf("T(nil, args) = %q, want %q", got, "level 3")
	}
}

func TestTranslateOrFallsBackOnMissingMessage(t *testing.T) {
	t.Parallel()

	cat := catalog.NewBuilder()
	if err := cat.SetString(language.English, "resist.fire", "Fire"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	loc := message.NewPrinter(language.English, message.Catalog(cat))

	if got := translateOr(loc, "resist.fire", "fallback"); got != "Fire" {
		t.Fatalf("translateOr(known) = %q, want %q", got, "Fire")
	}
	if got := translateOr(loc, "resist.unknown", "Unknown"); got != "Unknown" {
		t.Fatalf("translateOr(missing) = %q, want %q", got, "Unknown")
	}
	if got := translateOr(loc, "", "Blank"); got != "Blank" {
		t.Fatalf("translateOr(blank) = %q, want %q", got, "Blank")
	}
}
