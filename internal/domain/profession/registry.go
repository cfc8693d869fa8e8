// Package profession holds the fixed catalogue of professional practices the
// calculator and demos are tailored to, with their automatable-hours multiplier.
package profession

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMultiplier is used whenever a slug is not in the registry.
const DefaultMultiplier = 0.33

// ErrNotFound is returned by Lookup for unknown slugs.
var ErrNotFound = errors.New("profession not found")

// Copy is the localized display text of a profession.
type Copy struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
}

// AreaWeight is the share of saved hours attributed to one sub-activity.
type AreaWeight struct {
	Area   string  `json:"area"`
	Weight float64 `json:"weight"`
}

// Profession is one supported practice category.
type Profession struct {
	Slug       string          `json:"slug"`
	Multiplier float64         `json:"multiplier"`
	Copy       map[string]Copy `json:"copy"`
	Breakdown  []AreaWeight    `json:"breakdown"`
}

// Localized returns the copy for locale, falling back to Italian.
func (p Profession) Localized(locale string) Copy {
	if c, ok := p.Copy[locale]; ok {
		return c
	}
	return p.Copy["it"]
}

// DefaultBreakdown allocates savings for professions outside the registry.
var DefaultBreakdown = []AreaWeight{
	{Area: "correspondence", Weight: 0.40},
	{Area: "scheduling", Weight: 0.30},
	{Area: "document_drafting", Weight: 0.30},
}

// Registry is an immutable slug-indexed set of professions.
type Registry struct {
	bySlug map[string]Profession
	order  []string
}

// NewRegistry validates and indexes the given professions.
func NewRegistry(professions ...Profession) (*Registry, error) {
	r := &Registry{bySlug: make(map[string]Profession, len(professions))}
	for _, p := range professions {
		if p.Slug == "" {
			return nil, errors.New("profession slug is empty")
		}
		if _, dup := r.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate profession slug %q", p.Slug)
		}
		if p.Multiplier <= 0 || p.Multiplier >= 1 {
			return nil, fmt.Errorf("profession %q: multiplier %v outside (0, 1)", p.Slug, p.Multiplier)
		}
		if err := checkWeights(p.Breakdown); err != nil {
			return nil, fmt.Errorf("profession %q: %w", p.Slug, err)
		}
		r.bySlug[p.Slug] = p
		r.order = append(r.order, p.Slug)
	}
	return r, nil
}

func checkWeights(weights []AreaWeight) error {
	if len(weights) == 0 {
		return errors.New("empty savings breakdown")
	}
	sum := 0.0
	for _, w := range weights {
		if w.Weight <= 0 {
			return fmt.Errorf("area %q has non-positive weight", w.Area)
		}
		sum += w.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("breakdown weights sum to %v, want 1", sum)
	}
	return nil
}

// Lookup returns the profession for slug or ErrNotFound.
func (r *Registry) Lookup(slug string) (Profession, error) {
	p, ok := r.bySlug[slug]
	if !ok {
		return Profession{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return p, nil
}

// Has reports whether slug is a known profession.
func (r *Registry) Has(slug string) bool {
	_, ok := r.bySlug[slug]
	return ok
}

// MultiplierFor resolves the multiplier, falling back to DefaultMultiplier.
func (r *Registry) MultiplierFor(slug string) float64 {
	if p, ok := r.bySlug[slug]; ok {
		return p.Multiplier
	}
	return DefaultMultiplier
}

// BreakdownFor resolves the area weights, falling back to DefaultBreakdown.
func (r *Registry) BreakdownFor(slug string) []AreaWeight {
	if p, ok := r.bySlug[slug]; ok {
		return p.Breakdown
	}
	return DefaultBreakdown
}

// All returns the professions in declaration order.
func (r *Registry) All() []Profession {
	out := make([]Profession, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.bySlug[slug])
	}
	return out
}
