package catalog

import (
	"testing"
	"testing/fstest"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{BaseLocale, "pt-BR"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if got := len(bundle.NamespaceMessages(BaseLocale, "form")); got == 0 {
		t.Fatal("expected en-US form namespace messages")
	}
}

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s missing key %q", locale, key)
			}
		}
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	t.Parallel()

	catalogFS := fstest.MapFS{
		"locales/en-US/core.yaml": &fstest.MapFile{Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  a.key: a\n")},
		"locales/en-US/form.yaml": &fstest.MapFile{Data: []byte("locale: en-US\nnamespace: form\nmessages:\n  a.key: b\n")},
	}
	if _, err := LoadFromFS(catalogFS); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	t.Parallel()

	catalogFS := fstest.MapFS{
		"locales/en-US/core.yaml": &fstest.MapFile{Data: []byte("locale: pt-BR\nnamespace: core\nmessages:\n  a.key: a\n")},
	}
	if _, err := LoadFromFS(catalogFS); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	t.Parallel()

	catalogFS := fstest.MapFS{
		"locales/pt-BR/core.yaml": &fstest.MapFile{Data: []byte("locale: pt-BR\nnamespace: core\nmessages:\n  a.key: a\n")},
	}
	if _, err := LoadFromFS(catalogFS); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	t.Parallel()

	catalogFS := fstest.MapFS{
		"locales/en-US/core.yaml": &fstest.MapFile{Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  only.base: Base\n  shared: Shared\n")},
		"locales/pt-BR/core.yaml": &fstest.MapFile{Data: []byte("locale: pt-BR\nnamespace: core\nmessages:\n  shared: Compartilhado\n")},
	}
	bundle, err := LoadFromFS(catalogFS)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if got, ok := bundle.Message("pt-BR", "shared"); !ok || got != "Compartilhado" {
		t.Fatalf("Message(pt-BR, shared) = %q, %t", got, ok)
	}
	if got, ok := bundle.Message("pt-BR", "only.base"); !ok || got != "Base" {
		t.Fatalf("Message(pt-BR, only.base) = %q, %t", got, ok)
	}
	if _, ok := bundle.Message("pt-BR", "missing"); ok {
		t.Fatal("expected missing key lookup to fail")
	}
}
