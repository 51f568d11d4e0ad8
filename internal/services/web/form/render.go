package form

import (
	"log"

	"github.com/gdresist/optimizer/internal/services/web/catalog"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
)

// Renderer builds controls from catalog groups and keeps the registry in
// step with the document.
type Renderer struct {
	registry *Registry
	hooks    Hooks
	logger   *log.Logger
}

// NewRenderer returns a renderer writing into registry. Nil hooks are a no-op
// and a nil logger uses log.Default().
func NewRenderer(registry *Registry, hooks Hooks, logger *log.Logger) *Renderer {
	if hooks == nil {
		hooks = NopHooks{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{registry: registry, hooks: hooks, logger: logger}
}

// Render replaces the content of containerID with one control per group
// entry, set to its default. Rendering the same group twice yields an
// equivalent control set.
func (r *Renderer) Render(doc *Document, containerID string, group catalog.Group) error {
	controls := buildControls(group)
	if err := r.replace(doc, containerID, controls); err != nil {
		return err
	}
	r.runHooks(doc)
	return nil
}

// RenderMultiSelect populates widget with options and renders it as the
// multi-select control named list.Name inside containerID.
func (r *Renderer) RenderMultiSelect(doc *Document, containerID string, list catalog.List, widget MultiSelect, options []Option) error {
	control := &Control{
		Name:         list.Name,
		Kind:         ControlMultiSelect,
		LabelKey:     list.LabelKey,
		DefaultLabel: list.Label,
		Label:        list.Label,
		Options:      options,
		Widget:       widget,
	}
	if err := r.replace(doc, containerID, []*Control{control}); err != nil {
		return err
	}
	if widget != nil {
		widget.Populate(options)
	}
	r.runHooks(doc)
	return nil
}

// RunHooks re-applies localization to doc.
func (r *Renderer) RunHooks(doc *Document) {
	r.runHooks(doc)
}

func (r *Renderer) replace(doc *Document, containerID string, controls []*Control) error {
	previous, err := doc.Replace(containerID, controls)
	if err != nil {
		r.logger.Printf("render skipped container=%s kind=%s err=%v", containerID, apperrors.KindOf(err), err)
		return err
	}
	for _, c := range previous {
		r.registry.Unregister(c.Name)
	}
	for _, c := range controls {
		r.registry.Register(c)
	}
	return nil
}

func (r *Renderer) runHooks(doc *Document) {
	r.hooks.SetLanguageTags(doc)
	r.hooks.UpdateLocalizedText(doc)
}

func buildControls(group catalog.Group) []*Control {
	switch group.Kind {
	case catalog.KindChoice:
		return []*Control{{
			Name:         group.Name,
			Kind:         ControlSelect,
			LabelKey:     group.LabelKey,
			DefaultLabel: group.Label,
			Label:        group.Label,
			Value:        group.Default,
			Options:      buildOptions(group.Entries, group.Default),
		}}
	case catalog.KindSelect:
		controls := make([]*Control, 0, len(group.Entries))
		for _, e := range group.Entries {
			value := group.DefaultFor(e)
			controls = append(controls, entryControl(e, ControlSelect, func(c *Control) {
				c.Value = value
				c.Options = buildOptions(group.Options, value)
			}))
		}
		return controls
	case catalog.KindNumber:
		controls := make([]*Control, 0, len(group.Entries))
		for _, e := range group.Entries {
			value := group.DefaultFor(e)
			controls = append(controls, entryControl(e, ControlNumber, func(c *Control) {
				c.Value = value
				c.HasBounds = true
				c.Min = group.Min
				c.Max = group.Max
			}))
		}
		return controls
	case catalog.KindCheckbox:
		controls := make([]*Control, 0, len(group.Entries))
		for _, e := range group.Entries {
			checked := group.DefaultFor(e) == "true"
			controls = append(controls, entryControl(e, ControlCheckbox, func(c *Control) {
				c.Checked = checked
			}))
		}
		return controls
	default:
		return nil
	}
}

func entryControl(e catalog.Entry, kind ControlKind, configure func(*Control)) *Control {
	c := &Control{
		Name:         e.Key,
		Kind:         kind,
		LabelKey:     e.LabelKey,
		DefaultLabel: e.Label,
		Label:        e.Label,
	}
	configure(c)
	return c
}

func buildOptions(entries []catalog.Entry, selected string) []Option {
	options := make([]Option, 0, len(entries))
	for _, e := range entries {
		options = append(options, Option{
			Value:        e.Key,
			LabelKey:     e.LabelKey,
			DefaultLabel: e.Label,
			Label:        e.Label,
			Selected:     e.Key == selected,
		})
	}
	return options
}
