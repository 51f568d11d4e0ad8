// Package main reports translation coverage for the optimizer locales.
//
// Each locale is compared against the base locale, and every label key the
// form catalog references must resolve in every locale. The exit status is
// non-zero when anything is missing so the tool can gate CI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"text/tabwriter"

	i18ncatalog "github.com/gdresist/optimizer/internal/platform/i18n/catalog"
	formcatalog "github.com/gdresist/optimizer/internal/services/web/catalog"
)

type report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []localeStatus `json:"locales"`
}

type localeStatus struct {
	Locale     string   `json:"locale"`
	BaseKeys   int      `json:"base_keys"`
	Translated int      `json:"translated"`
	Completion float64  `json:"completion"`
	Missing    []string `json:"missing,omitempty"`
	Extra      []string `json:"extra,omitempty"`
	// Unresolved lists form catalog keys with no message in this locale.
	Unresolved []string `json:"unresolved,omitempty"`
}

func (s localeStatus) complete() bool {
	return len(s.Missing) == 0 && len(s.Unresolved) == 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("i18nstatus", flag.ContinueOnError)
	fs.SetOutput(stderr)
	baseLocale := fs.String("base-locale", i18ncatalog.BaseLocale, "locale used as the translation source of truth")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		fmt.Fprintf(stderr, "load i18n catalogs: %v\n", err)
		return 1
	}
	if !bundle.HasLocale(*baseLocale) {
		fmt.Fprintf(stderr, "base locale %q is missing from catalogs\n", *baseLocale)
		return 1
	}
	form, err := formcatalog.Default()
	if err != nil {
		fmt.Fprintf(stderr, "load form catalog: %v\n", err)
		return 1
	}

	rep := buildReport(bundle, *baseLocale, form.LabelKeys())
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(stderr, "encode report: %v\n", err)
			return 1
		}
	} else {
		writeTable(stdout, rep)
	}
	for _, locale := range rep.Locales {
		if !locale.complete() {
			return 1
		}
	}
	return 0
}

func buildReport(bundle *i18ncatalog.Bundle, baseLocale string, formKeys []string) report {
	base := bundle.LocaleMessages(baseLocale)
	statuses := make([]localeStatus, 0)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		missing := absentFrom(keysOf(base), messages)
		statuses = append(statuses, localeStatus{
			Locale:     locale,
			BaseKeys:   len(base),
			Translated: len(base) - len(missing),
			Completion: percent(len(base)-len(missing), len(base)),
			Missing:    missing,
			Extra:      absentFrom(keysOf(messages), base),
			Unresolved: absentFrom(formKeys, messages),
		})
	}
	slices.SortFunc(statuses, func(a, b localeStatus) int {
		switch {
		case a.Locale < b.Locale:
			return -1
		case a.Locale > b.Locale:
			return 1
		}
		return 0
	})
	return report{BaseLocale: baseLocale, Locales: statuses}
}

func writeTable(w io.Writer, rep report) {
	fmt.Fprintf(w, "base locale: %s\n\n", rep.BaseLocale)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tTRANSLATED\tMISSING\tEXTRA\tUNRESOLVED\tCOMPLETION")
	for _, s := range rep.Locales {
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%d\t%d\t%.1f%%\n",
			s.Locale, s.Translated, s.BaseKeys, len(s.Missing), len(s.Extra), len(s.Unresolved), s.Completion)
	}
	_ = tw.Flush()
	for _, s := range rep.Locales {
		listKeys(w, s.Locale, "missing", s.Missing)
		listKeys(w, s.Locale, "unresolved form key", s.Unresolved)
	}
}

func listKeys(w io.Writer, locale, label string, keys []string) {
	for _, key := range keys {
		fmt.Fprintf(w, "%s: %s %s\n", locale, label, key)
	}
}

func keysOf(messages map[string]string) []string {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	return keys
}

// absentFrom returns the sorted keys with no entry in messages.
func absentFrom(keys []string, messages map[string]string) []string {
	var out []string
	for _, key := range keys {
		if _, ok := messages[key]; !ok {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

func percent(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	return math.Round(float64(numerator)*1000/float64(denominator)) / 10
}
