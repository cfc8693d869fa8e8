// Package templates renders the localized HTML pages of the site.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/roi"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/i18n"
)

//go:embed pages/*.html
var pageFS embed.FS

// Page is the data every page template receives.
type Page struct {
	Locale string
	Title  string
	Path   string
	User   *services.Identity
	Data   any
}

// Renderer holds one parsed template set per page, each including the layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded pages with string lookups bound to strs.
func NewRenderer(strs *i18n.Catalog) (*Renderer, error) {
	return newRenderer(pageFS, strs)
}

func newRenderer(fsys fs.FS, strs *i18n.Catalog) (*Renderer, error) {
	funcs := template.FuncMap{
		"t": strs.T,
		"tf": func(locale, key, name, value string) string {
			return strs.Format(locale, key, map[string]string{name: value})
		},
		"hours": roi.FormatHours,
		"money": roi.FormatCurrency,
		"moneyp": func(x *float64, locale string) string {
			if x == nil {
				return "–"
			}
			return roi.FormatCurrency(*x, locale)
		},
		"fval": func(x *float64) float64 {
			if x == nil {
				return 0
			}
			return *x
		},
		"statuses": func() []lead.Status { return lead.Statuses },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	layout, err := fs.ReadFile(fsys, "pages/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	names, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if name == "pages/layout.html" {
			continue
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		t, err := template.New("layout").Funcs(funcs).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("failed to parse layout: %w", err)
		}
		if _, err := t.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		key := name[len("pages/") : len(name)-len(".html")]
		r.pages[key] = t
	}
	return r, nil
}

// Execute renders page into memory so callers can choose the status code
// after knowing the render succeeded.
func (r *Renderer) Execute(page string, data Page) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// Render executes page into w. Nothing is written when rendering fails.
func (r *Renderer) Render(w io.Writer, page string, data Page) error {
	out, err := r.Execute(page, data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
