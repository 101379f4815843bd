// Package filter applies structured product criteria to a catalog.
//
// Every criterion is optional. A nil field places no constraint on its
// dimension, which is distinct from a zero price or a false stock flag:
//
//	maxPrice := 200.0
//	c := filter.Criteria{Category: filter.String("electronics"), MaxPrice: &maxPrice}
//	matches := filter.Apply(records, c)
//
// Apply is a stable filter. It never reorders or mutates its inputs.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sant0-9/gptkit/internal/catalog"
)

// Criteria is the optional constraint set applied to a catalog.
type Criteria struct {
	// Category matches the record category case-insensitively.
	// An empty string is treated like an absent category.
	Category *string `json:"category,omitempty"`

	// MaxPrice is an inclusive upper bound on price.
	MaxPrice *float64 `json:"max_price,omitempty"`

	// MinRating is an inclusive lower bound on rating.
	MinRating *float64 `json:"min_rating,omitempty"`

	// InStock must equal the record's stock flag exactly.
	InStock *bool `json:"in_stock,omitempty"`
}

// HasCategory reports whether a category constraint is set.
func (c Criteria) HasCategory() bool {
	return c.Category != nil && *c.Category != ""
}

// IsEmpty reports whether no constraint is set, in which case every record matches.
func (c Criteria) IsEmpty() bool {
	return !c.HasCategory() && c.MaxPrice == nil && c.MinRating == nil && c.InStock == nil
}

// Matches reports whether r satisfies every constraint present in c.
func (c Criteria) Matches(r catalog.Record) bool {
	if c.HasCategory() && !strings.EqualFold(r.Category, *c.Category) {
		return false
	}
	if c.MaxPrice != nil && r.Price > *c.MaxPrice {
		return false
	}
	if c.MinRating != nil && r.Rating < *c.MinRating {
		return false
	}
	if c.InStock != nil && r.InStock != *c.InStock {
		return false
	}
	return true
}

// Apply returns the records matching c in their original order.
// The result is a new slice; records is left untouched.
func Apply(records []catalog.Record, c Criteria) []catalog.Record {
	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// String renders the present constraints, e.g. "category=electronics, max_price=200".
func (c Criteria) String() string {
	if c.IsEmpty() {
		return "none"
	}

	var parts []string
	if c.HasCategory() {
		parts = append(parts, "category="+*c.Category)
	}
	if c.MaxPrice != nil {
		parts = append(parts, "max_price="+formatFloat(*c.MaxPrice))
	}
	if c.MinRating != nil {
		parts = append(parts, "min_rating="+formatFloat(*c.MinRating))
	}
	if c.InStock != nil {
		parts = append(parts, fmt.Sprintf("in_stock=%t", *c.InStock))
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
