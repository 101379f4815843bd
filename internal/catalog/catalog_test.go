package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/gptkit/internal/apperr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	want := []Record{
		{Name: "Wireless Earbuds", Category: "Electronics", Price: 89.99, Rating: 4.5, InStock: true},
		{Name: "Yoga Mat", Category: "Fitness", Price: 25, Rating: 4.1, InStock: false},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json document",
			file: "products.json",
			content: `{"products": [
				{"name": "Wireless Earbuds", "category": "Electronics", "price": 89.99, "rating": 4.5, "in_stock": true},
				{"name": "Yoga Mat", "category": "Fitness", "price": 25, "rating": 4.1, "in_stock": false}
			]}`,
		},
		{
			name: "json array",
			file: "products.json",
			content: `[
				{"name": "Wireless Earbuds", "category": "Electronics", "price": 89.99, "rating": 4.5, "in_stock": true},
				{"name": "Yoga Mat", "category": "Fitness", "price": 25, "rating": 4.1, "in_stock": false}
			]`,
		},
		{
			name: "yaml document",
			file: "products.yaml",
			content: `products:
  - name: Wireless Earbuds
    category: Electronics
    price: 89.99
    rating: 4.5
    in_stock: true
  - name: Yoga Mat
    category: Fitness
    price: 25
    rating: 4.1
    in_stock: false
`,
		},
		{
			name: "yaml list",
			file: "products.yml",
			content: `- {name: Wireless Earbuds, category: Electronics, price: 89.99, rating: 4.5, in_stock: true}
- {name: Yoga Mat, category: Fitness, price: 25, rating: 4.1, in_stock: false}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, cat.Products)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMissingInput)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad json", `{"products": [`, "parsing catalog"},
		{"missing name", `[{"category": "Books", "price": 10, "rating": 3}]`, "name is a required field"},
		{"negative price", `[{"name": "A", "category": "Books", "price": -1, "rating": 3}]`, "price must be 0 or greater"},
		{"rating too high", `[{"name": "A", "category": "Books", "price": 1, "rating": 6}]`, "rating must be 5 or less"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "products.json", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
			assert.NotErrorIs(t, err, apperr.ErrMissingInput)
		})
	}
}

func TestCategories(t *testing.T) {
	cat := &Catalog{Products: []Record{
		{Name: "a", Category: "Electronics"},
		{Name: "b", Category: "Fitness"},
		{Name: "c", Category: "electronics"},
		{Name: "d", Category: "Books"},
	}}
	assert.Equal(t, []string{"Electronics", "Fitness", "Books"}, cat.Categories())
	assert.Empty(t, (&Catalog{}).Categories())
}

func TestJSON(t *testing.T) {
	cat := &Catalog{Products: []Record{{Name: "a", Category: "Books", Price: 10, Rating: 4, InStock: true}}}
	s, err := cat.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[{"name":"a","category":"Books","price":10,"rating":4,"in_stock":true}]}`, s)
}
