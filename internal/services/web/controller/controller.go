// Package controller owns one page lifetime of the optimizer form: the
// rendered document, its field registry, the blacklist multi-selects, and the
// tab set, plus the ordered initialization that ties them to stored state.
//
// Every exported method takes the controller lock, so events from concurrent
// requests against the same page are applied one at a time.
package controller

import (
	"context"
	"fmt"
	"log"
	"maps"
	"sync"

	"github.com/gdresist/optimizer/internal/services/web/catalog"
	"github.com/gdresist/optimizer/internal/services/web/choices"
	"github.com/gdresist/optimizer/internal/services/web/form"
	"github.com/gdresist/optimizer/internal/services/web/loader"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"github.com/gdresist/optimizer/internal/services/web/statestore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ListLoader loads the external item lists concurrently.
type ListLoader interface {
	LoadAll(ctx context.Context, urls ...string) [][]loader.Item
}

// Deps wires a Controller.
type Deps struct {
	Catalog *catalog.Catalog
	Store   *statestore.Store
	Loader  ListLoader
	// Sources maps a catalog list source ("component", "augment") to the URL
	// of its CSV file.
	Sources map[string]string
	// Lang is the initial document language.
	Lang  string
	Hooks form.Hooks
	// NewMultiSelect builds the widget for the named list. Defaults to
	// choices.New.
	NewMultiSelect func(name string) form.MultiSelect
	Logger         *log.Logger
}

// View is a read-only look at the page while the controller lock is held.
type View struct {
	Doc       *form.Document
	Tabs      []string
	ActiveTab string
	// ScrollY is the offset restored for the active tab on this page load.
	ScrollY int
}

// Controller is one page lifetime.
type Controller struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	store     *statestore.Store
	loader    ListLoader
	sources   map[string]string
	hooks     form.Hooks
	newWidget func(name string) form.MultiSelect
	logger    *log.Logger
	tracer    trace.Tracer

	doc       *form.Document
	registry  *form.Registry
	renderer  *form.Renderer
	widgets   map[string]form.MultiSelect
	tabs      *form.Tabs
	scroll    map[string]int
	scrollY   int
	listening bool
	// lastSeq is the sequence number of the last edit applied per field.
	lastSeq map[string]uint64

	// eventCtx is the context of the operation in progress. Widget event
	// handlers save with it.
	eventCtx context.Context
}

// New builds a controller with an empty document declaring every catalog
// container. Call Init before serving events.
func New(deps Deps) *Controller {
	c := &Controller{
		catalog:   deps.Catalog,
		store:     deps.Store,
		loader:    deps.Loader,
		sources:   maps.Clone(deps.Sources),
		hooks:     deps.Hooks,
		newWidget: deps.NewMultiSelect,
		logger:    deps.Logger,
		tracer:    otel.Tracer("github.com/gdresist/optimizer/internal/services/web/controller"),
		registry:  form.NewRegistry(),
		widgets:   map[string]form.MultiSelect{},
		scroll:    map[string]int{},
		lastSeq:   map[string]uint64{},
		eventCtx:  context.Background(),
	}
	if c.catalog == nil {
		c.catalog = catalog.MustDefault()
	}
	if c.hooks == nil {
		c.hooks = form.NopHooks{}
	}
	if c.newWidget == nil {
		c.newWidget = func(name string) form.MultiSelect { return choices.New(name, c.logger) }
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	c.renderer = form.NewRenderer(c.registry, c.hooks, c.logger)
	c.doc = form.NewDocument(deps.Lang, containerIDs(c.catalog)...)
	c.tabs = form.NewTabs(c.catalog.TabIDs()...)
	return c
}

func containerIDs(c *catalog.Catalog) []string {
	ids := make([]string, 0, len(c.Groups)+len(c.Lists))
	for _, g := range c.Groups {
		ids = append(ids, g.ID)
	}
	for _, l := range c.Lists {
		ids = append(ids, l.ID)
	}
	return ids
}

// Init runs the page load sequence:
//  1. render every catalog group;
//  2. load the external lists in parallel;
//  3. rebuild the multi-selects from the loaded items;
//  4. restore the stored form snapshot;
//  5. attach the save listeners;
//  6. consume the one-shot tab and scroll state.
//
// No stage failure stops the page from rendering.
func (c *Controller) Init(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, span := c.tracer.Start(ctx, "controller.Init")
	defer span.End()
	c.eventCtx = ctx

	c.stage(ctx, "render_groups", c.renderGroups)

	var lists [][]loader.Item
	c.stage(ctx, "load_lists", func(ctx context.Context) {
		lists = c.loadLists(ctx)
	})
	c.stage(ctx, "init_multiselects", func(context.Context) {
		c.initMultiSelects(lists)
	})
	c.stage(ctx, "restore", func(ctx context.Context) {
		c.store.Restore(ctx, c.registry)
	})
	c.stage(ctx, "attach_listeners", func(context.Context) {
		c.attachListeners()
	})
	c.stage(ctx, "consume_page_state", c.consumePageState)
}

func (c *Controller) stage(ctx context.Context, name string, run func(context.Context)) {
	ctx, span := c.tracer.Start(ctx, "controller."+name)
	defer span.End()
	run(ctx)
}

func (c *Controller) renderGroups(context.Context) {
	for _, g := range c.catalog.Groups {
		// Missing containers are logged by the renderer.
		_ = c.renderer.Render(c.doc, g.ID, g)
	}
}

func (c *Controller) loadLists(ctx context.Context) [][]loader.Item {
	urls := make([]string, len(c.catalog.Lists))
	for i, l := range c.catalog.Lists {
		urls[i] = c.sources[l.Source]
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.StringSlice("list.urls", urls))
	if c.loader == nil {
		return make([][]loader.Item, len(urls))
	}
	return c.loader.LoadAll(ctx, urls...)
}

func (c *Controller) initMultiSelects(lists [][]loader.Item) {
	for i, l := range c.catalog.Lists {
		if previous, ok := c.widgets[l.Name]; ok {
			previous.Destroy()
			delete(c.widgets, l.Name)
		}
		var items []loader.Item
		if i < len(lists) {
			items = lists[i]
		}
		widget := c.newWidget(l.Name)
		if err := c.renderer.RenderMultiSelect(c.doc, l.ID, l, widget, optionsFor(items)); err != nil {
			widget.Destroy()
			continue
		}
		c.widgets[l.Name] = widget
	}
}

func optionsFor(items []loader.Item) []form.Option {
	options := make([]form.Option, 0, len(items))
	for _, item := range items {
		options = append(options, form.Option{
			Value:        item.Name,
			DefaultLabel: item.Name,
			Label:        item.Name,
			Tag:          item.Tag,
		})
	}
	return options
}

func (c *Controller) attachListeners() {
	save := func(string) { c.save() }
	for _, widget := range c.widgets {
		widget.On(form.EventAddItem, save)
		widget.On(form.EventRemoveItem, save)
	}
	c.listening = true
}

func (c *Controller) consumePageState(ctx context.Context) {
	state, ok := c.store.ConsumePageState(ctx)
	if !ok {
		return
	}
	if !c.tabs.Activate(state.ActiveTab) {
		c.logger.Printf("ignore stored tab tab=%s", state.ActiveTab)
		return
	}
	c.scrollY = state.Scroll[state.ActiveTab]
}

func (c *Controller) save() {
	if !c.listening {
		return
	}
	c.store.Save(c.eventCtx, c.registry)
}

// Input applies a user edit to the named control and saves the form.
func (c *Controller) Input(ctx context.Context, name, value string) error {
	_, err := c.InputAt(ctx, name, value, 0)
	return err
}

// InputAt is Input for an edit the page numbered seq. An edit numbered at or
// below the last one applied to the same field arrived out of order and is
// ignored. Zero is never stale. applied reports whether the edit took effect.
func (c *Controller) InputAt(ctx context.Context, name, value string, seq uint64) (applied bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventCtx = ctx

	control, ok := c.registry.Lookup(name)
	if !ok {
		return false, form.MissingField(name)
	}
	if last := c.lastSeq[name]; seq > 0 && seq <= last {
		c.logger.Printf("ignore stale input field=%s seq=%d last=%d", name, seq, last)
		return false, nil
	}
	if err := control.Input(value); err != nil {
		return false, err
	}
	if seq > 0 {
		c.lastSeq[name] = seq
	}
	c.save()
	return true, nil
}

// AddItem selects value in the named multi-select.
func (c *Controller) AddItem(ctx context.Context, name, value string) error {
	return c.editList(ctx, name, value, form.MultiSelect.Add)
}

// RemoveItem deselects value in the named multi-select.
func (c *Controller) RemoveItem(ctx context.Context, name, value string) error {
	return c.editList(ctx, name, value, form.MultiSelect.Remove)
}

func (c *Controller) editList(ctx context.Context, name, value string, edit func(form.MultiSelect, string) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventCtx = ctx

	control, ok := c.registry.Lookup(name)
	if !ok {
		return form.MissingField(name)
	}
	if control.Kind != form.ControlMultiSelect || control.Widget == nil {
		return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q is not a multi-select", name))
	}
	// The widget fires add/remove events on change; the listeners save.
	if !edit(control.Widget, value) {
		return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("field %q cannot change item %q", name, value))
	}
	return nil
}

// SwitchTab records scrollY for the tab being left, persists the scroll map
// and the new active tab, then activates tab.
func (c *Controller) SwitchTab(ctx context.Context, tab string, scrollY int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventCtx = ctx

	if !c.tabs.Has(tab) {
		return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("unknown tab %q", tab))
	}
	c.scroll[c.tabs.Active()] = max(0, scrollY)
	c.store.SaveScroll(ctx, c.scroll)
	c.store.SaveActiveTab(ctx, tab)
	c.tabs.Activate(tab)
	return nil
}

// Submit records scrollY for the active tab and persists the page state for
// the next page load.
func (c *Controller) Submit(ctx context.Context, scrollY int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventCtx = ctx

	active := c.tabs.Active()
	c.scroll[active] = max(0, scrollY)
	c.store.SavePageState(ctx, form.PageState{ActiveTab: active, Scroll: maps.Clone(c.scroll)})
}

// SetLanguage re-renders the catalog groups in lang and re-applies the stored
// snapshot so user values survive. Loaded lists are kept.
func (c *Controller) SetLanguage(ctx context.Context, lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventCtx = ctx

	c.doc.Lang = lang
	c.renderGroups(ctx)
	c.renderer.RunHooks(c.doc)
	c.store.Restore(ctx, c.registry)
}

// Snapshot returns the current value of every registered control.
func (c *Controller) Snapshot() form.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Snapshot()
}

// ActiveTab returns the active tab id.
func (c *Controller) ActiveTab() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tabs.Active()
}

// Lang returns the document language.
func (c *Controller) Lang() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Lang
}

// View calls fn with the page while holding the lock. fn must not call back
// into the controller.
func (c *Controller) View(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(View{
		Doc:       c.doc,
		Tabs:      c.tabs.IDs(),
		ActiveTab: c.tabs.Active(),
		ScrollY:   c.scrollY,
	})
}
