package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Compositing defaults applied when the YAML leaves them unset.
const (
	DefaultCanvasWidth    = 1000
	DefaultCanvasHeight   = 1000
	DefaultAlphaThreshold = 32
)

// Load reads and validates a trait catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path is cleaned and validated
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Catalog) applyDefaults() {
	if c.CanvasWidth <= 0 {
		c.CanvasWidth = DefaultCanvasWidth
	}
	if c.CanvasHeight <= 0 {
		c.CanvasHeight = DefaultCanvasHeight
	}
	if c.AlphaThreshold < 1 || c.AlphaThreshold > 255 {
		c.AlphaThreshold = DefaultAlphaThreshold
	}
}

func (c *Catalog) validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("no categories defined")
	}
	known := make(map[Category]bool, len(ZOrder))
	for _, cat := range ZOrder {
		known[cat] = true
	}
	seen := make(map[Category]bool, len(c.Sections))
	for _, sec := range c.Sections {
		if !known[sec.Name] {
			return fmt.Errorf("unknown category: %s", sec.Name)
		}
		if seen[sec.Name] {
			return fmt.Errorf("duplicate category: %s", sec.Name)
		}
		seen[sec.Name] = true
		values := make(map[string]bool, len(sec.Traits))
		for _, tr := range sec.Traits {
			if tr.Value == "" {
				return fmt.Errorf("category %s: trait with empty value", sec.Name)
			}
			if tr.ImageRef == "" {
				return fmt.Errorf("category %s: trait %s has no image", sec.Name, tr.Value)
			}
			if values[tr.Value] {
				return fmt.Errorf("category %s: duplicate trait value %s", sec.Name, tr.Value)
			}
			values[tr.Value] = true
		}
	}
	return nil
}

// Section returns the section for a category, or nil if the catalog
// does not offer that category.
func (c *Catalog) Section(cat Category) *Section {
	for i := range c.Sections {
		if c.Sections[i].Name == cat {
			return &c.Sections[i]
		}
	}
	return nil
}

// Trait resolves a category/value pair to its trait record.
func (c *Catalog) Trait(cat Category, value string) (Trait, bool) {
	sec := c.Section(cat)
	if sec == nil {
		return Trait{}, false
	}
	for _, tr := range sec.Traits {
		if tr.Value == value {
			return tr, true
		}
	}
	return Trait{}, false
}

// Ordered resolves a selection against the catalog and returns the
// chosen traits back-to-front in canonical z-order. Unknown values and
// unselected categories are dropped.
func (c *Catalog) Ordered(sel Selection) []SelectedTrait {
	out := make([]SelectedTrait, 0, len(sel))
	for _, cat := range ZOrder {
		value := sel[cat]
		if value == "" {
			continue
		}
		tr, ok := c.Trait(cat, value)
		if !ok {
			continue
		}
		out = append(out, SelectedTrait{Category: cat, Trait: tr})
	}
	return out
}
