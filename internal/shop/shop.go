package shop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Grant is what a purchase delivers: inventory items, currency, or both.
type Grant struct {
	ItemID     string `json:"item_id,omitempty" yaml:"item_id"`
	Count      int    `json:"count,omitempty" yaml:"count"`
	CurrencyID string `json:"currency_id,omitempty" yaml:"currency_id"`
	Amount     int    `json:"amount,omitempty" yaml:"amount"`
}

// Item is one purchasable catalog entry.
type Item struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Description  string  `json:"description,omitempty" yaml:"description"`
	CostCurrency string  `json:"cost_currency" yaml:"cost_currency"`
	CostAmount   int     `json:"cost_amount" yaml:"cost_amount"`
	Grants       []Grant `json:"grants" yaml:"grants"`
	Weight       int     `json:"weight,omitempty" yaml:"weight"`
}

// Catalog is the immutable set of shop items.
type Catalog struct {
	items   map[string]*Item
	ordered []*Item
}

func NewCatalog(items []Item) *Catalog {
	c := &Catalog{
		items:   make(map[string]*Item, len(items)),
		ordered: make([]*Item, 0, len(items)),
	}
	for i := range items {
		item := items[i]
		if item.ID == "" {
			continue
		}
		if item.Weight <= 0 {
			item.Weight = 1
		}
		if _, dup := c.items[item.ID]; dup {
			continue
		}
		c.items[item.ID] = &item
		c.ordered = append(c.ordered, &item)
	}
	return c
}

// Get returns the item for an id, or nil if unknown.
func (c *Catalog) Get(id string) *Item { return c.items[id] }

// List returns all items in load order.
func (c *Catalog) List() []*Item {
	return append([]*Item{}, c.ordered...)
}

type shopFile struct {
	Items []Item `yaml:"items"`
}

// LoadCatalog reads shop items from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shop catalog: %w", err)
	}
	var file shopFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse shop catalog: %w", err)
	}
	return NewCatalog(file.Items), nil
}
