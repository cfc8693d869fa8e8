// Package demo lists the interactive demos shown in the protected area and
// loads their HTML fragments.
package demo

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// ErrNotFound is returned for unknown slugs and missing fragment files.
var ErrNotFound = errors.New("demo not found")

// Demo is one interactive walkthrough shown in the demo area.
type Demo struct {
	Slug       string            `json:"slug"`
	Profession string            `json:"profession,omitempty"`
	Fragment   string            `json:"-"`
	Title      map[string]string `json:"title"`
}

// TitleFor returns the title in locale, falling back to Italian.
func (d Demo) TitleFor(locale string) string {
	if t, ok := d.Title[locale]; ok {
		return t
	}
	return d.Title["it"]
}

// Builtin is the set of demos shipped with the site.
var Builtin = []Demo{
	{Slug: "customer-agents", Fragment: "customer-agents.html", Title: map[string]string{
		"it": "Agenti per l'assistenza clienti", "en": "Customer service agents"}},
	{Slug: "document-intake", Profession: "commercialisti", Fragment: "document-intake.html", Title: map[string]string{
		"it": "Raccolta documenti automatica", "en": "Automatic document intake"}},
	{Slug: "deadline-monitor", Profession: "avvocati", Fragment: "deadline-monitor.html", Title: map[string]string{
		"it": "Monitoraggio scadenze", "en": "Deadline monitor"}},
	{Slug: "appointment-assistant", Profession: "dentisti", Fragment: "appointment-assistant.html", Title: map[string]string{
		"it": "Assistente appuntamenti", "en": "Appointment assistant"}},
}

// Catalog resolves demos by slug and reads their fragments from fsys.
type Catalog struct {
	demos  []Demo
	bySlug map[string]Demo
	fsys   fs.FS
}

func NewCatalog(fsys fs.FS, demos ...Demo) *Catalog {
	c := &Catalog{demos: demos, bySlug: make(map[string]Demo, len(demos)), fsys: fsys}
	for _, d := range demos {
		c.bySlug[d.Slug] = d
	}
	return c
}

func (c *Catalog) All() []Demo {
	return append([]Demo(nil), c.demos...)
}

func (c *Catalog) Lookup(slug string) (Demo, error) {
	d, ok := c.bySlug[slug]
	if !ok {
		return Demo{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return d, nil
}

// Fragment returns the raw HTML of the demo. A missing file is reported as ErrNotFound.
func (c *Catalog) Fragment(slug string) (Demo, []byte, error) {
	d, err := c.Lookup(slug)
	if err != nil {
		return Demo{}, nil, err
	}
	data, err := fs.ReadFile(c.fsys, path.Clean(d.Fragment))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return d, nil, fmt.Errorf("%w: fragment %s", ErrNotFound, d.Fragment)
		}
		return d, nil, fmt.Errorf("failed to read demo fragment %s: %w", d.Fragment, err)
	}
	return d, data, nil
}
