package reward

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog holds the immutable set of reward templates. Templates are
// normalized once at construction and never mutated afterwards.
type Catalog struct {
	templates map[string]*Template
	ordered   []*Template
}

func NewCatalog(templates []Template) *Catalog {
	c := &Catalog{
		templates: make(map[string]*Template, len(templates)),
		ordered:   make([]*Template, 0, len(templates)),
	}
	for i := range templates {
		tpl := templates[i]
		normalizeTemplate(&tpl)
		if tpl.ID == "" {
			continue
		}
		if _, dup := c.templates[tpl.ID]; dup {
			continue
		}
		c.templates[tpl.ID] = &tpl
		c.ordered = append(c.ordered, &tpl)
	}
	return c
}

// normalizeTemplate fills defaults: zero MaxClaims means unbounded,
// weights floor at 1, rarity defaults to common. A missing payout
// chance becomes 1 (always); an explicit chance is clamped into [0,1],
// so `chance: 0` stays a never-pays spec.
func normalizeTemplate(tpl *Template) {
	if tpl.MaxClaims == 0 {
		tpl.MaxClaims = -1
	}
	if tpl.Weight <= 0 {
		tpl.Weight = 1
	}
	if tpl.Rarity == "" {
		tpl.Rarity = RarityCommon
	}
	for i := range tpl.Payouts {
		c := tpl.Payouts[i].Chance
		switch {
		case c == nil:
			always := 1.0
			tpl.Payouts[i].Chance = &always
		case *c < 0:
			*c = 0
		case *c > 1:
			*c = 1
		}
	}
}

// Get returns the template for an id, or nil if unknown.
func (c *Catalog) Get(id string) *Template {
	return c.templates[id]
}

// List returns all templates in load order.
func (c *Catalog) List() []*Template {
	return append([]*Template{}, c.ordered...)
}

// ListByType returns templates of one type in load order.
func (c *Catalog) ListByType(t Type) []*Template {
	out := make([]*Template, 0)
	for _, tpl := range c.ordered {
		if tpl.Type == t {
			out = append(out, tpl)
		}
	}
	return out
}

// PickRandom selects a template by weight, or nil for an empty catalog.
func (c *Catalog) PickRandom(rng *rand.Rand) *Template {
	totalWeight := 0
	for _, tpl := range c.ordered {
		totalWeight += tpl.Weight
	}
	if totalWeight == 0 {
		return nil
	}

	roll := rng.Intn(totalWeight)
	current := 0
	for _, tpl := range c.ordered {
		current += tpl.Weight
		if roll < current {
			return tpl
		}
	}
	return nil
}

type catalogFile struct {
	Rewards []Template `yaml:"rewards"`
}

// LoadCatalog reads reward templates from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reward catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse reward catalog: %w", err)
	}
	return NewCatalog(file.Rewards), nil
}
