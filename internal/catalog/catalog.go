// Package catalog loads the product catalog the search command filters.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/validate"
)

// Record is one catalog entry. Records are never modified after loading.
type Record struct {
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Category string  `json:"category" yaml:"category" validate:"required"`
	Price    float64 `json:"price" yaml:"price" validate:"gte=0"`
	Rating   float64 `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	InStock  bool    `json:"in_stock" yaml:"in_stock"`
}

// Catalog is an ordered set of records.
type Catalog struct {
	Products []Record `json:"products" yaml:"products"`
}

// Load reads a catalog from path. YAML is used for .yaml/.yml files and JSON
// for everything else. Both the {"products": [...]} document and a bare list
// of records are accepted.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s: %w", path, apperr.ErrMissingInput)
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var cat *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cat, err = decodeYAML(data)
	default:
		cat, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

func decodeJSON(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return &Catalog{Products: records}, nil
	}

	var cat Catalog
	if err := json.Unmarshal(trimmed, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func decodeYAML(data []byte) (*Catalog, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var records []Record
		if err := node.Content[0].Decode(&records); err != nil {
			return nil, err
		}
		return &Catalog{Products: records}, nil
	}

	var cat Catalog
	if err := node.Decode(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks every record and reports the first invalid one by index.
func (c *Catalog) Validate() error {
	for i, r := range c.Products {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("product %d (%q): %w", i, r.Name, err)
		}
	}
	return nil
}

// Categories returns the distinct categories in first-seen order.
// Categories differing only in case are reported once.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.Products {
		key := strings.ToLower(r.Category)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r.Category)
	}
	return out
}

// JSON returns the catalog document as compact JSON for inclusion in prompts.
func (c *Catalog) JSON() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
