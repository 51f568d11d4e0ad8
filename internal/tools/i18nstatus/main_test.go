package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	i18ncatalog "github.com/gdresist/optimizer/internal/platform/i18n/catalog"
)

func TestRunReportsEmbeddedCatalogsComplete(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stdout=%s stderr=%s", code, stdout.String(), stderr.String())
	}
	var rep report
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.BaseLocale != "en-US" {
		t.Fatalf("base locale = %q", rep.BaseLocale)
	}
	if len(rep.Locales) != 2 || rep.Locales[0].Locale != "en-US" || rep.Locales[1].Locale != "pt-BR" {
		t.Fatalf("locales = %#v", rep.Locales)
	}
	for _, s := range rep.Locales {
		if s.Completion != 100 {
			t.Fatalf("%s completion = %v, missing=%v unresolved=%v", s.Locale, s.Completion, s.Missing, s.Unresolved)
		}
	}
}

func TestRunTableOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "pt-BR") || !strings.Contains(stdout.String(), "100.0%") {
		t.Fatalf("table output = %q", stdout.String())
	}
}

func TestRunRejectsUnknownBaseLocale(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-base-locale", "fr-FR"}, &stdout, &stderr); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "fr-FR") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestBuildReportFlagsGaps(t *testing.T) {
	t.Parallel()

	bundle, err := i18ncatalog.LoadFromFS(fstest.MapFS{
		"locales/en-US/core.yaml": {Data: []byte("locale: en-US\nnamespace: core\nmessages:\n  a: A\n  b: B\n")},
		"locales/pt-BR/core.yaml": {Data: []byte("locale: pt-BR\nnamespace: core\nmessages:\n  a: A\n  z: Z\n")},
	})
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}

	rep := buildReport(bundle, "en-US", []string{"a", "form.only"})
	pt := rep.Locales[1]
	if pt.Locale != "pt-BR" {
		t.Fatalf("locale = %q", pt.Locale)
	}
	if strings.Join(pt.Missing, ",") != "b" {
		t.Fatalf("missing = %v", pt.Missing)
	}
	if strings.Join(pt.Extra, ",") != "z" {
		t.Fatalf("extra = %v", pt.Extra)
	}
	if strings.Join(pt.Unresolved, ",") != "form.only" {
		t.Fatalf("unresolved = %v", pt.Unresolved)
	}
	if pt.Completion != 50 || pt.complete() {
		t.Fatalf("completion = %v complete = %t", pt.Completion, pt.complete())
	}
}
