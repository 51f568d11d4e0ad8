// Package catalog holds the static option tables the form is rendered from.
//
// The tables are compiled in from catalog.yaml and validated once at process
// start. A malformed table is a programming error, so MustDefault panics.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Kind selects how a group renders.
type Kind string

const (
	// KindChoice renders one select named Group.Name whose options are the entries.
	KindChoice Kind = "choice"
	// KindSelect renders one select per entry, each offering Group.Options.
	KindSelect Kind = "select"
	// KindNumber renders one bounded number input per entry.
	KindNumber Kind = "number"
	// KindCheckbox renders one checkbox per entry.
	KindCheckbox Kind = "checkbox"
)

// Entry is one (label, key, optional default) descriptor.
type Entry struct {
	Label    string `yaml:"label"`
	Key      string `yaml:"key"`
	Default  string `yaml:"default"`
	LabelKey string `yaml:"label_key"`
}

// Group is a named table rendered into the container with the same id.
type Group struct {
	ID       string `yaml:"id"`
	Kind     Kind   `yaml:"kind"`
	Name     string `yaml:"name"`
	Label    string `yaml:"label"`
	LabelKey string `yaml:"label_key"`
	// HeadingKey titles the rendered section.
	HeadingKey string  `yaml:"heading_key"`
	Default    string  `yaml:"default"`
	Min        int     `yaml:"min"`
	Max        int     `yaml:"max"`
	Entries    []Entry `yaml:"entries"`
	Options    []Entry `yaml:"options"`
}

// DefaultFor returns the entry default, falling back to the group default.
func (g Group) DefaultFor(e Entry) string {
	if e.Default != "" {
		return e.Default
	}
	return g.Default
}

// List describes a multi-select fed from an external CSV source.
type List struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Label      string `yaml:"label"`
	LabelKey   string `yaml:"label_key"`
	HeadingKey string `yaml:"heading_key"`
	Source     string `yaml:"source"`
}

// Tab is one tab header and the containers it shows.
type Tab struct {
	ID         string   `yaml:"id"`
	LabelKey   string   `yaml:"label_key"`
	Containers []string `yaml:"containers"`
}

// Catalog is the full set of option tables.
type Catalog struct {
	Tabs   []Tab   `yaml:"tabs"`
	Groups []Group `yaml:"groups"`
	Lists  []List  `yaml:"lists"`
}

//go:embed catalog.yaml
var embeddedCatalog []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embeddedCatalog)
	})
	return defaultCatalog, defaultErr
}

// MustDefault returns the embedded catalog or panics when it is malformed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// HeadingKey returns the section heading key for a container.
func (c *Catalog) HeadingKey(containerID string) string {
	if g, ok := c.Group(containerID); ok {
		return g.HeadingKey
	}
	if c == nil {
		return ""
	}
	for _, l := range c.Lists {
		if l.ID == containerID {
			return l.HeadingKey
		}
	}
	return ""
}

// Group returns the group rendered into containerID.
func (c *Catalog) Group(containerID string) (Group, bool) {
	if c == nil {
		return Group{}, false
	}
	for _, g := range c.Groups {
		if g.ID == containerID {
			return g, true
		}
	}
	return Group{}, false
}

// List returns the multi-select list with the given control name.
func (c *Catalog) List(name string) (List, bool) {
	if c == nil {
		return List{}, false
	}
	for _, l := range c.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return List{}, false
}

// TabIDs returns the declared tab ids in order.
func (c *Catalog) TabIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Tabs))
	for _, tab := range c.Tabs {
		ids = append(ids, tab.ID)
	}
	return ids
}

// LabelKeys returns every translation key the tables reference, sorted and
// deduplicated.
func (c *Catalog) LabelKeys() []string {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	add := func(key string) {
		if key != "" {
			seen[key] = struct{}{}
		}
	}
	for _, tab := range c.Tabs {
		add(tab.LabelKey)
	}
	for _, g := range c.Groups {
		add(g.LabelKey)
		add(g.HeadingKey)
		for _, e := range g.Entries {
			add(e.LabelKey)
		}
		for _, e := range g.Options {
			add(e.LabelKey)
		}
	}
	for _, l := range c.Lists {
		add(l.LabelKey)
		add(l.HeadingKey)
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks structural invariants of the tables.
func (c *Catalog) Validate() error {
	if len(c.Tabs) == 0 {
		return fmt.Errorf("catalog: at least one tab is required")
	}
	containers := map[string]bool{}
	names := map[string]string{}
	claim := func(name, owner string) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("catalog %s: blank control name", owner)
		}
		if prev, ok := names[name]; ok {
			return fmt.Errorf("catalog %s: control name %q already used by %s", owner, name, prev)
		}
		names[name] = owner
		return nil
	}

	for _, g := range c.Groups {
		if g.ID == "" {
			return fmt.Errorf("catalog: group id is required")
		}
		if containers[g.ID] {
			return fmt.Errorf("catalog: duplicate container %q", g.ID)
		}
		containers[g.ID] = true
		if len(g.Entries) == 0 {
			return fmt.Errorf("catalog group %s: entries are required", g.ID)
		}
		if err := validateGroup(g, claim); err != nil {
			return err
		}
	}
	for _, l := range c.Lists {
		if l.ID == "" || containers[l.ID] {
			return fmt.Errorf("catalog: list container %q is blank or duplicate", l.ID)
		}
		containers[l.ID] = true
		if err := claim(l.Name, "list "+l.ID); err != nil {
			return err
		}
		if l.Source == "" {
			return fmt.Errorf("catalog list %s: source is required", l.ID)
		}
	}

	tabIDs := map[string]bool{}
	placed := map[string]bool{}
	for _, tab := range c.Tabs {
		if tab.ID == "" || tabIDs[tab.ID] {
			return fmt.Errorf("catalog: tab id %q is blank or duplicate", tab.ID)
		}
		tabIDs[tab.ID] = true
		for _, container := range tab.Containers {
			if !containers[container] {
				return fmt.Errorf("catalog tab %s: unknown container %q", tab.ID, container)
			}
			if placed[container] {
				return fmt.Errorf("catalog tab %s: container %q placed twice", tab.ID, container)
			}
			placed[container] = true
		}
	}
	for container := range containers {
		if !placed[container] {
			return fmt.Errorf("catalog: container %q is not placed on any tab", container)
		}
	}
	return nil
}

func validateGroup(g Group, claim func(name, owner string) error) error {
	owner := "group " + g.ID
	switch g.Kind {
	case KindChoice:
		if err := claim(g.Name, owner); err != nil {
			return err
		}
		if err := uniqueKeys(owner, g.Entries); err != nil {
			return err
		}
		if g.Default != "" && !hasKey(g.Entries, g.Default) {
			return fmt.Errorf("catalog %s: default %q is not an option", owner, g.Default)
		}
	case KindSelect:
		if len(g.Options) == 0 {
			return fmt.Errorf("catalog %s: options are required", owner)
		}
		if err := uniqueKeys(owner, g.Options); err != nil {
			return err
		}
		for _, e := range g.Entries {
			if err := claim(e.Key, owner); err != nil {
				return err
			}
			if d := g.DefaultFor(e); d != "" && !hasKey(g.Options, d) {
				return fmt.Errorf("catalog %s: default %q for %s is not an option", owner, d, e.Key)
			}
		}
	case KindNumber:
		if g.Min > g.Max {
			return fmt.Errorf("catalog %s: min %d exceeds max %d", owner, g.Min, g.Max)
		}
		for _, e := range g.Entries {
			if err := claim(e.Key, owner); err != nil {
				return err
			}
			d := g.DefaultFor(e)
			if d == "" {
				continue
			}
			n, err := strconv.Atoi(d)
			if err != nil {
				return fmt.Errorf("catalog %s: default %q for %s is not a number", owner, d, e.Key)
			}
			if n < g.Min || n > g.Max {
				return fmt.Errorf("catalog %s: default %d for %s is outside [%d, %d]", owner, n, e.Key, g.Min, g.Max)
			}
		}
	case KindCheckbox:
		for _, e := range g.Entries {
			if err := claim(e.Key, owner); err != nil {
				return err
			}
			if d := g.DefaultFor(e); d != "" && d != "true" && d != "false" {
				return fmt.Errorf("catalog %s: default %q for %s is not a boolean", owner, d, e.Key)
			}
		}
	default:
		return fmt.Errorf("catalog %s: unknown kind %q", owner, g.Kind)
	}
	return nil
}

func uniqueKeys(owner string, entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("catalog %s: blank option key", owner)
		}
		if seen[e.Key] {
			return fmt.Errorf("catalog %s: duplicate option %q", owner, e.Key)
		}
		seen[e.Key] = true
	}
	return nil
}

func hasKey(entries []Entry, key string) bool {
	for _, e := range entries {
		if e.Key == key {
			return true
		}
	}
	return false
}
