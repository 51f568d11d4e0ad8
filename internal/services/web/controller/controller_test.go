package controller

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/gdresist/optimizer/internal/services/web/catalog"
	"github.com/gdresist/optimizer/internal/services/web/choices"
	"github.com/gdresist/optimizer/internal/services/web/form"
	webi18n "github.com/gdresist/optimizer/internal/services/web/i18n"
	"github.com/gdresist/optimizer/internal/services/web/loader"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"github.com/gdresist/optimizer/internal/services/web/statestore"
	"github.com/gdresist/optimizer/internal/services/web/storage"
	"github.com/gdresist/optimizer/internal/services/web/storage/memory"
)

const testClient = "client-1"

type fakeLoader struct {
	lists map[string][]loader.Item
	calls [][]string
}

func (f *fakeLoader) LoadAll(_ context.Context, urls ...string) [][]loader.Item {
	f.calls = append(f.calls, urls)
	out := make([][]loader.Item, len(urls))
	for i, url := range urls {
		out[i] = f.lists[url]
	}
	return out
}

type harness struct {
	backing *memory.Store
	loader  *fakeLoader
	logs    *bytes.Buffer
	widgets []*choices.Select
}

func newHarness() *harness {
	return &harness{
		backing: memory.New(),
		loader: &fakeLoader{lists: map[string][]loader.Item{
			"component.csv": {
				{Name: "Ancient Armor Plate", Tag: "Chest"},
				{Name: "Scaled Hide", Tag: "Chest"},
			},
			"augment.csv": {
				{Name: "Ugdenbog Leather", Tag: "Armor"},
			},
		}},
		logs: &bytes.Buffer{},
	}
}

// load runs one page load for the harness client.
func (h *harness) load(t *testing.T, lang string) *Controller {
	t.Helper()
	logger := log.New(h.logs, "", 0)
	c := New(Deps{
		Catalog: catalog.MustDefault(),
		Store:   statestore.New(storage.Scope(h.backing, testClient), logger),
		Loader:  h.loader,
		Sources: map[string]string{"component": "component.csv", "augment": "augment.csv"},
		Lang:    lang,
		Hooks:   webi18n.Hooks{},
		NewMultiSelect: func(name string) form.MultiSelect {
			s := choices.New(name, logger)
			h.widgets = append(h.widgets, s)
			return s
		},
		Logger: logger,
	})
	c.Init(context.Background())
	return c
}

func textValue(t *testing.T, snapshot form.Snapshot, name string) string {
	t.Helper()
	v, ok := snapshot[name]
	if !ok {
		t.Fatalf("snapshot has no %q", name)
	}
	s, ok := v.AsText()
	if !ok {
		t.Fatalf("%q is %s, want text", name, v.Kind())
	}
	return s
}

func TestInitRendersDefaultsAndLists(t *testing.T) {
	t.Parallel()

	h := newHarness()
	c := h.load(t, "en-US")

	snapshot := c.Snapshot()
	if got := textValue(t, snapshot, "current-fire"); got != "40" {
		t.Fatalf("current-fire = %q, want 40", got)
	}
	if got := textValue(t, snapshot, "template"); got != "one-hand-shield" {
		t.Fatalf("template = %q", got)
	}
	if got := textValue(t, snapshot, "standing-rovers"); got != "revered" {
		t.Fatalf("standing-rovers = %q", got)
	}
	if len(h.loader.calls) != 1 || !slices.Equal(h.loader.calls[0], []string{"component.csv", "augment.csv"}) {
		t.Fatalf("loader calls = %v", h.loader.calls)
	}
	if c.ActiveTab() != "character" {
		t.Fatalf("active tab = %q", c.ActiveTab())
	}

	c.View(func(v View) {
		container, ok := v.Doc.Container("component-blacklist")
		if !ok || len(container.Controls) != 1 {
			t.Fatal("expected the component multi-select")
		}
		options := container.Controls[0].CurrentOptions()
		if len(options) != 2 || options[0].Tag != "Chest" {
			t.Fatalf("options = %#v", options)
		}
		if v.ScrollY != 0 {
			t.Fatalf("scroll = %d", v.ScrollY)
		}
	})

	if keys := h.backing.Keys(testClient); len(keys) != 0 {
		t.Fatalf("page load wrote %v, want no writes", keys)
	}
}

func TestInputPersistsAcrossPageLoads(t *testing.T) {
	t.Parallel()

	h := newHarness()
	first := h.load(t, "en-US")
	if err := first.Input(context.Background(), "current-fire", "75"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := first.Input(context.Background(), "component-head", "true"); err != nil {
		t.Fatalf("Input: %v", err)
	}

	second := h.load(t, "en-US")
	snapshot := second.Snapshot()
	if got := textValue(t, snapshot, "current-fire"); got != "75" {
		t.Fatalf("current-fire = %q, want 75", got)
	}
	if got := textValue(t, snapshot, "current-cold"); got != "40" {
		t.Fatalf("current-cold = %q, want default", got)
	}
	if checked, _ := snapshot["component-head"].AsBool(); !checked {
		t.Fatal("component-head should be checked")
	}
}

func TestInputAtIgnoresOutOfOrderEdits(t *testing.T) {
	t.Parallel()

	h := newHarness()
	c := h.load(t, "en-US")
	ctx := context.Background()

	if applied, err := c.InputAt(ctx, "current-fire", "75", 2); err != nil || !applied {
		t.Fatalf("InputAt(seq 2) = %t, %v", applied, err)
	}
	if applied, err := c.InputAt(ctx, "current-fire", "7", 1); err != nil || applied {
		t.Fatalf("InputAt(seq 1) = %t, %v; want ignored", applied, err)
	}
	if applied, err := c.InputAt(ctx, "current-fire", "76", 2); err != nil || applied {
		t.Fatalf("InputAt(repeat seq 2) = %t, %v; want ignored", applied, err)
	}
	// Sequences are tracked per field.
	if applied, err := c.InputAt(ctx, "current-cold", "50", 1); err != nil || !applied {
		t.Fatalf("InputAt(current-cold seq 1) = %t, %v", applied, err)
	}
	if !strings.Contains(h.logs.String(), "ignore stale input field=current-fire seq=1 last=2") {
		t.Fatalf("missing stale log: %s", h.logs.String())
	}

	reloaded := h.load(t, "en-US").Snapshot()
	if got := textValue(t, reloaded, "current-fire"); got != "75" {
		t.Fatalf("current-fire = %q, want 75", got)
	}
	if got := textValue(t, reloaded, "current-cold"); got != "50" {
		t.Fatalf("current-cold = %q, want 50", got)
	}
}

func TestClearedNumberRestoresEmpty(t *testing.T) {
	t.Parallel()

	h := newHarness()
	c := h.load(t, "en-US")
	ctx := context.Background()
	if err := c.Input(ctx, "current-fire", "75"); err != nil {
		t.Fatalf("Input(75): %v", err)
	}
	if err := c.Input(ctx, "current-fire", ""); err != nil {
		t.Fatalf("Input(empty): %v", err)
	}
	if got := textValue(t, h.load(t, "en-US").Snapshot(), "current-fire"); got != "" {
		t.Fatalf("current-fire after reload = %q, want empty", got)
	}
}

func TestInputRejectsUnknownFieldsAndBadValues(t *testing.T) {
	t.Parallel()

	h := newHarness()
	c := h.load(t, "en-US")

	if err := c.Input(context.Background(), "current-psychic", "10"); !apperrors.Is(err, apperrors.KindMissingElement) {
		t.Fatalf("unknown field err = %v", err)
	}
	if err := c.Input(context.Background(), "standing-rovers", "exalted"); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("unknown option err = %v", err)
	}
	if err := c.Input(context.Background(), "component-head", "maybe"); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("non-boolean err = %v", err)
	}
	if got := textValue(t, c.Snapshot(), "standing-rovers"); got == "exalted" {
		t.Fatalf("rejected input changed value to %q", got)
	}
	if keys := h.backing.Keys(testClient); len(keys) != 0 {
		t.Fatalf("rejected input wrote %v", keys)
	}
}

func TestMultiSelectEditsSaveThroughEvents(t *testing.T) {
	t.Parallel()

	h := newHarness()
	first := h.load(t, "en-US")
	ctx := context.Background()
	if err := first.AddItem(ctx, "component_blacklist", "Scaled Hide"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := first.AddItem(ctx, "component_blacklist", "Ancient Armor Plate"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := first.RemoveItem(ctx, "component_blacklist", "Scaled Hide"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := first.AddItem(ctx, "component_blacklist", "Not An Item"); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("unknown item err = %v", err)
	}
	if err := first.AddItem(ctx, "current-fire", "Scaled Hide"); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("non-list err = %v", err)
	}

	second := h.load(t, "en-US")
	got, ok := second.Snapshot()["component_blacklist"].AsList()
	if !ok || !slices.Equal(got, []string{"Ancient Armor Plate"}) {
		t.Fatalf("restored list = %v", got)
	}
}

func TestReinitDestroysPreviousWidgets(t *testing.T) {
	t.Parallel()

	h := newHarness()
	c := h.load(t, "en-US")
	c.Init(context.Background())

	if len(h.widgets) != 4 {
		t.Fatalf("widgets built = %d, want 4", len(h.widgets))
	}
	for i, w := range h.widgets[:2] {
		if !w.Destroyed() {
			t.Fatalf("widget %d from the first init is still live", i)
		}
	}
	for i, w := range h.widgets[2:] {
		if w.Destroyed() {
			t.Fatalf("widget %d from the second init was destroyed", i+2)
		}
	}
}

func TestTabAndScrollAreRestoredOnce(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	first := h.load(t, "en-US")
	if err := first.SwitchTab(ctx, "slots", 120); err != nil {
		t.Fatalf("SwitchTab: %v", err)
	}
	if err := first.SwitchTab(ctx, "results", 0); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("unknown tab err = %v", err)
	}
	if first.ActiveTab() != "slots" {
		t.Fatalf("active = %q", first.ActiveTab())
	}
	first.Submit(ctx, 300)

	second := h.load(t, "en-US")
	second.View(func(v View) {
		if v.ActiveTab != "slots" || v.ScrollY != 300 {
			t.Fatalf("restored tab = %q scroll = %d", v.ActiveTab, v.ScrollY)
		}
	})
	for _, key := range h.backing.Keys(testClient) {
		if key == statestore.ActiveTabKey || key == statestore.ScrollKey {
			t.Fatalf("page state key %q survived the load", key)
		}
	}

	third := h.load(t, "en-US")
	third.View(func(v View) {
		if v.ActiveTab != "character" || v.ScrollY != 0 {
			t.Fatalf("third load tab = %q scroll = %d", v.ActiveTab, v.ScrollY)
		}
	})
}

func TestStoredUnknownTabIsIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness()
	local := storage.Scope(h.backing, testClient)
	if err := local.SetItem(context.Background(), statestore.ActiveTabKey, "results"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c := h.load(t, "en-US")
	if c.ActiveTab() != "character" {
		t.Fatalf("active = %q", c.ActiveTab())
	}
	if !strings.Contains(h.logs.String(), "ignore stored tab tab=results") {
		t.Fatalf("logs = %q", h.logs.String())
	}
}

func TestSetLanguageKeepsValues(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()
	c := h.load(t, "en-US")
	if err := c.Input(ctx, "current-fire", "75"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := c.AddItem(ctx, "augment_blacklist", "Ugdenbog Leather"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	c.SetLanguage(ctx, "pt-BR")

	if c.Lang() != "pt-BR" {
		t.Fatalf("lang = %q", c.Lang())
	}
	snapshot := c.Snapshot()
	if got := textValue(t, snapshot, "current-fire"); got != "75" {
		t.Fatalf("current-fire = %q after language switch", got)
	}
	if got, _ := snapshot["augment_blacklist"].AsList(); !slices.Equal(got, []string{"Ugdenbog Leather"}) {
		t.Fatalf("augment_blacklist = %v", got)
	}
	c.View(func(v View) {
		container, _ := v.Doc.Container("resistances-section")
		if label := container.Controls[0].Label; label != "Fogo" {
			t.Fatalf("fire label = %q", label)
		}
	})
}

func TestInitToleratesOneFailedList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/component_data.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("Item,Type\nScaled Hide,Chest\n"))
	}))
	t.Cleanup(server.Close)

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)
	c := New(Deps{
		Store:  statestore.New(storage.Scope(memory.New(), testClient), logger),
		Loader: loader.New(loader.Options{Client: server.Client(), Logger: logger}),
		Sources: map[string]string{
			"component": server.URL + "/component_data.csv",
			"augment":   server.URL + "/augment_data.csv",
		},
		Lang:   "en-US",
		Logger: logger,
	})
	c.Init(context.Background())

	c.View(func(v View) {
		components, _ := v.Doc.Container("component-blacklist")
		augments, _ := v.Doc.Container("augment-blacklist")
		if n := len(components.Controls[0].CurrentOptions()); n != 1 {
			t.Fatalf("component options = %d, want 1", n)
		}
		if n := len(augments.Controls[0].CurrentOptions()); n != 0 {
			t.Fatalf("augment options = %d, want 0", n)
		}
	})
	if !strings.Contains(logs.String(), "load list failed") {
		t.Fatalf("logs = %q", logs.String())
	}
}
