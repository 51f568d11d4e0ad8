package form

import (
	"fmt"

	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
)

// Container is a named region of the document holding controls.
type Container struct {
	ID       string
	Controls []*Control
}

// Document is the rendered page model: an ordered set of named containers.
type Document struct {
	// Lang is the BCP 47 tag the document is rendered in.
	Lang string

	order      []string
	containers map[string]*Container
}

// NewDocument declares the containers a page is rendered into.
func NewDocument(lang string, containerIDs ...string) *Document {
	d := &Document{
		Lang:       lang,
		containers: make(map[string]*Container, len(containerIDs)),
	}
	for _, id := range containerIDs {
		if _, ok := d.containers[id]; ok {
			continue
		}
		d.order = append(d.order, id)
		d.containers[id] = &Container{ID: id}
	}
	return d
}

// Container returns the container with id.
func (d *Document) Container(id string) (*Container, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.containers[id]
	return c, ok
}

// ContainerIDs returns container ids in declaration order.
func (d *Document) ContainerIDs() []string {
	if d == nil {
		return nil
	}
	return append([]string{}, d.order...)
}

// Controls returns every control in container order.
func (d *Document) Controls() []*Control {
	if d == nil {
		return nil
	}
	var out []*Control
	for _, id := range d.order {
		out = append(out, d.containers[id].Controls...)
	}
	return out
}

// Replace swaps the content of a container and returns what it held before.
func (d *Document) Replace(id string, controls []*Control) ([]*Control, error) {
	c, ok := d.Container(id)
	if !ok {
		return nil, MissingContainer(id)
	}
	previous := c.Controls
	c.Controls = controls
	return previous, nil
}

// MissingContainer reports a reference to a container that does not exist.
func MissingContainer(id string) error {
	return apperrors.E(apperrors.KindMissingElement, fmt.Sprintf("container %q not found", id))
}

// MissingField reports a reference to a control that is not registered.
func MissingField(name string) error {
	return apperrors.EK(apperrors.KindMissingElement, "error.unknown_field", fmt.Sprintf("field %q not found", name))
}
