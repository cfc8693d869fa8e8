// Package i18n serves the Italian and English string tables and picks the
// locale for a request.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Fallback is used when a key or locale is missing.
const Fallback = "it"

// Supported lists the locales with a string table, fallback first.
var Supported = []language.Tag{language.Italian, language.English}

var matcher = language.NewMatcher(Supported)

// Catalog is a flattened key→string lookup per locale ("nav.home" → "Home").
type Catalog struct {
	tables map[string]map[string]string
}

// Load parses the embedded tables.
func Load() (*Catalog, error) {
	return LoadFS(localeFS, "locales")
}

// LoadFS parses every <locale>.yaml file under dir.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}
	c := &Catalog{tables: make(map[string]map[string]string)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		table := make(map[string]string)
		flatten("", tree, table)
		c.tables[strings.TrimSuffix(e.Name(), ".yaml")] = table
	}
	if _, ok := c.tables[Fallback]; !ok {
		return nil, fmt.Errorf("missing %s string table", Fallback)
	}
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// T returns the string for key in locale, then in Fallback, then key itself.
func (c *Catalog) T(locale, key string) string {
	if s, ok := c.tables[locale][key]; ok {
		return s
	}
	if s, ok := c.tables[Fallback][key]; ok {
		return s
	}
	return key
}

// Format is T with {{.Name}} placeholders replaced from vars.
func (c *Catalog) Format(locale, key string, vars map[string]string) string {
	s := c.T(locale, key)
	for name, value := range vars {
		s = strings.ReplaceAll(s, "{{."+name+"}}", value)
	}
	return s
}

// Table returns the lookup function bound to locale, for templates.
func (c *Catalog) Table(locale string) func(key string) string {
	return func(key string) string { return c.T(locale, key) }
}

// Has reports whether a table exists for locale.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.tables[locale]
	return ok
}

// Negotiate picks the locale from, in order, an explicit choice (query
// parameter), the stored preference (cookie), the Accept-Language header and
// the configured default.
func Negotiate(explicit, stored, acceptLanguage, defaultLocale string) string {
	for _, candidate := range []string{explicit, stored} {
		if loc, ok := supported(candidate); ok {
			return loc
		}
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return base(Supported[idx])
			}
		}
	}
	if loc, ok := supported(defaultLocale); ok {
		return loc
	}
	return Fallback
}

// Supports returns the base locale of raw when it is one of Supported.
func Supports(raw string) (string, bool) {
	return supported(raw)
}

func supported(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	want := base(tag)
	for _, s := range Supported {
		if base(s) == want {
			return want, true
		}
	}
	return "", false
}

func base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}
