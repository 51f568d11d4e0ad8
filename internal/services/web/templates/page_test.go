package templates

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gdresist/optimizer/internal/services/web/catalog"
	"github.com/gdresist/optimizer/internal/services/web/choices"
	"github.com/gdresist/optimizer/internal/services/web/form"
	webi18n "github.com/gdresist/optimizer/internal/services/web/i18n"
	"github.com/gdresist/optimizer/internal/services/web/submission"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

func renderDocument(t *testing.T, lang string, components []form.Option) *form.Document {
	t.Helper()
	c := catalog.MustDefault()
	var ids []string
	for _, g := range c.Groups {
		ids = append(ids, g.ID)
	}
	for _, l := range c.Lists {
		ids = append(ids, l.ID)
	}
	doc := form.NewDocument(lang, ids...)
	r := form.NewRenderer(form.NewRegistry(), webi18n.Hooks{}, log.New(io.Discard, "", 0))
	for _, g := range c.Groups {
		if err := r.Render(doc, g.ID, g); err != nil {
			t.Fatalf("render %s: %v", g.ID, err)
		}
	}
	for _, l := range c.Lists {
		var options []form.Option
		if l.Name == "component_blacklist" {
			options = components
		}
		if err := r.RenderMultiSelect(doc, l.ID, l, choices.New(l.Name, nil), options); err != nil {
			t.Fatalf("render %s: %v", l.ID, err)
		}
	}
	return doc
}

func renderPage(t *testing.T, view PageView) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Page(view).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render page: %v", err)
	}
	return buf.Bytes()
}

func newView(t *testing.T, tag language.Tag, components []form.Option) PageView {
	t.Helper()
	c := catalog.MustDefault()
	return PageView{
		Lang:      tag.String(),
		Loc:       webi18n.Printer(tag),
		Catalog:   c,
		Doc:       renderDocument(t, tag.String(), components),
		Tabs:      c.TabIDs(),
		ActiveTab: "character",
		Languages: webi18n.LanguageOptions(tag),
	}
}

func TestPageRendersTabsAndControls(t *testing.T) {
	view := newView(t, language.AmericanEnglish, []form.Option{
		{Value: "Scaled Hide", Label: "Scaled Hide", Tag: "Component"},
	})
	view.ActiveTab = "slots"
	view.ScrollY = 320

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(renderPage(t, view)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := doc.Find("body").AttrOr("data-scroll-y", ""); got != "320" {
		t.Fatalf("data-scroll-y = %q", got)
	}
	if got := doc.Find(".tab-button").Length(); got != 4 {
		t.Fatalf("tab buttons = %d, want 4", got)
	}
	if got := doc.Find(".tab-button.active").AttrOr("data-tab", ""); got != "slots" {
		t.Fatalf("active tab button = %q", got)
	}
	if _, hidden := doc.Find("#tab-character").Attr("hidden"); !hidden {
		t.Fatal("expected inactive panel to be hidden")
	}
	if _, hidden := doc.Find("#tab-slots").Attr("hidden"); hidden {
		t.Fatal("expected active panel to be visible")
	}

	fire := doc.Find(`#tab-character input[name="current-fire"]`)
	if fire.AttrOr("value", "") != "40" || fire.AttrOr("min", "") != "0" || fire.AttrOr("max", "") != "300" {
		t.Fatalf("current-fire attrs = value %q min %q max %q", fire.AttrOr("value", ""), fire.AttrOr("min", ""), fire.AttrOr("max", ""))
	}
	if got := doc.Find(`select[name="template"] option[selected]`).AttrOr("value", ""); got != "one-hand-shield" {
		t.Fatalf("selected template = %q", got)
	}
	if got := doc.Find(`#tab-slots input[type="checkbox"]`).Length(); got != 26 {
		t.Fatalf("slot checkboxes = %d, want 26", got)
	}
	if got := doc.Find(`select[name="standing-rovers"] option[selected]`).AttrOr("value", ""); got != "revered" {
		t.Fatalf("rovers standing = %q", got)
	}

	option := doc.Find(`select[name="component_blacklist"] option`)
	if option.Length() != 1 || option.AttrOr("data-tag", "") != "Component" {
		t.Fatalf("component options = %d tag %q", option.Length(), option.AttrOr("data-tag", ""))
	}
	if got := doc.Find(`[data-multiselect="augment_blacklist"] .multiselect-empty`).Length(); got != 1 {
		t.Fatalf("empty notice = %d, want 1", got)
	}
	if got := doc.Find("#resistances-section legend").Text(); got != "Current Resistances" {
		t.Fatalf("legend = %q", got)
	}
	if doc.Find("#summary").Length() != 0 {
		t.Fatal("summary should render only after a submission")
	}
}

func TestPageRendersLocalizedLabels(t *testing.T) {
	view := newView(t, language.BrazilianPortuguese, nil)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(renderPage(t, view)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find("html").AttrOr("lang", ""); got != "pt-BR" {
		t.Fatalf("lang = %q", got)
	}
	if got := doc.Find(`label[for="current-fire"]`).Text(); got != "Fogo" {
		t.Fatalf("fire label = %q", got)
	}
	if got := doc.Find(`button[type="submit"]`).Text(); got != "Otimizar" {
		t.Fatalf("submit = %q", got)
	}
	if got := doc.Find(`.language-nav a.active`).AttrOr("data-lang", ""); got != "pt-BR" {
		t.Fatalf("active language = %q", got)
	}
	if got := doc.Find(`.language-nav a[data-lang="en-US"]`).AttrOr("href", ""); got != "/lang?lang=en-US" {
		t.Fatalf("english link = %q", got)
	}
}

func TestPageRendersSummary(t *testing.T) {
	view := newView(t, language.AmericanEnglish, nil)
	view.Summary = &submission.OptimizeInput{
		CharacterLevel: 94,
		WeaponTemplate: "two-hand-melee",
		Resistances: []submission.Resistance{
			{Type: "fire", Label: "Fire", LabelKey: "resistance.fire", Current: 75, Target: 80, Gap: 5},
			{Type: "cold", Label: "Cold", LabelKey: "resistance.cold", Current: 90, Target: 80},
		},
		ComponentBlacklist: []string{"Scaled Hide"},
		Standings: []submission.Standing{
			{Faction: "crossing", LabelKey: "faction.crossing", Label: "Devil's Crossing", Standing: "revered"},
		},
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(renderPage(t, view)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	summary := doc.Find("#summary")
	if summary.Length() != 1 {
		t.Fatal("expected summary section")
	}
	if !strings.Contains(summary.Find("dl").Text(), "Two-Handed Melee Weapon") {
		t.Fatalf("summary = %q", summary.Find("dl").Text())
	}
	if got := summary.Find(`tr[data-resistance="fire"] td`).Last().Text(); got != "5" {
		t.Fatalf("fire gap = %q", got)
	}
	if summary.Find(`tr[data-resistance="cold"]`).HasClass("gap") {
		t.Fatal("cold meets its target")
	}
	if summary.Find(`tr.gap`).Length() != 1 {
		t.Fatalf("gap rows = %d", summary.Find(`tr.gap`).Length())
	}
	standing := summary.Find(`tr[data-faction="crossing"] td`)
	if standing.First().Text() != "Devil's Crossing" || standing.Last().Text() != "Revered" {
		t.Fatalf("standing row = %q", standing.Text())
	}
}

func TestPageEscapesListLabels(t *testing.T) {
	view := newView(t, language.AmericanEnglish, []form.Option{
		{Value: `<script>alert(1)</script>`, Label: `<script>alert(1)</script>`},
	})
	out := renderPage(t, view)

	scripts := 0
	z := html.NewTokenizer(bytes.NewReader(out))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.StartTagToken {
			name, _ := z.TagName()
			if string(name) == "script" {
				scripts++
			}
		}
	}
	if scripts != 1 {
		t.Fatalf("script tags = %d, want only the page script", scripts)
	}
}

func TestErrorPageTitles(t *testing.T) {
	loc := webi18n.Printer(language.AmericanEnglish)
	if got := ErrorPageTitle(404, loc); got != "Page not found" {
		t.Fatalf("404 title = %q", got)
	}
	if got := ErrorPageTitle(418, loc); got != "Something went wrong" {
		t.Fatalf("418 title = %q", got)
	}

	var buf bytes.Buffer
	if err := ErrorPage(404, "en-US", loc).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find(`a[href="/"]`).Text(); got != "Back to the optimizer" {
		t.Fatalf("back link = %q", got)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestPageRenderStopsOnContextAndWriteErrors(t *testing.T) {
	view := newView(t, language.AmericanEnglish, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := Page(view).Render(ctx, &buf); !errors.Is(err, context.Canceled) {
		t.Fatalf("render with canceled context = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes after cancel", buf.Len())
	}

	boom := errors.New("client gone")
	if err := ErrorPage(500, "en-US", view.Loc).Render(context.Background(), failingWriter{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("render to failing writer = %v", err)
	}
}
