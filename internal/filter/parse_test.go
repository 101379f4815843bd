package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/gptkit/internal/apperr"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Criteria
	}{
		{
			name: "all fields",
			raw:  `{"category": "Electronics", "max_price": 200, "min_rating": 4, "in_stock": true}`,
			want: Criteria{Category: String("Electronics"), MaxPrice: Float(200), MinRating: Float(4), InStock: Bool(true)},
		},
		{
			name: "subset",
			raw:  `{"max_price": 49.5}`,
			want: Criteria{MaxPrice: Float(49.5)},
		},
		{
			name: "nulls are absent",
			raw:  `{"category": null, "max_price": null, "min_rating": null, "in_stock": null}`,
			want: Criteria{},
		},
		{
			name: "false and zero are kept",
			raw:  `{"in_stock": false, "max_price": 0}`,
			want: Criteria{InStock: Bool(false), MaxPrice: Float(0)},
		},
		{
			name: "unknown keys ignored",
			raw:  `{"color": "red", "min_rating": 3}`,
			want: Criteria{MinRating: Float(3)},
		},
		{
			name: "keys match exactly",
			raw:  `{"Category": "Books", "MAX_PRICE": 5, "in_stock": true}`,
			want: Criteria{InStock: Bool(true)},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: Criteria{},
		},
		{
			name: "empty arguments",
			raw:  "  ",
			want: Criteria{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteria([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCriteriaMalformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"max_price": "cheap"}`,
		`{"in_stock": "yes"}`,
		`{"category": 5}`,
		`[1, 2]`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseCriteria([]byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
		})
	}
}
