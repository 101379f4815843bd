package filter

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/sant0-9/gptkit/internal/apperr"
)

var knownFields = map[string]bool{
	"category":   true,
	"max_price":  true,
	"min_rating": true,
	"in_stock":   true,
}

// ParseCriteria decodes function-call arguments produced by the model.
//
// JSON null and missing keys leave a field absent. A value of the wrong
// JSON type is a malformed response. Keys are matched exactly; anything
// else, including a differently cased known key, is ignored.
func ParseCriteria(raw []byte) (Criteria, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Criteria{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Criteria{}, apperr.Malformed(fmt.Errorf("filter arguments: %w", err))
	}
	for key := range fields {
		if !knownFields[key] {
			log.Debug().Str("key", key).Msg("ignoring unknown filter argument")
			delete(fields, key)
		}
	}

	// The decoder folds key case, so only the exact keys are decoded.
	known, err := json.Marshal(fields)
	if err != nil {
		return Criteria{}, apperr.Malformed(fmt.Errorf("filter arguments: %w", err))
	}

	var c Criteria
	if err := json.Unmarshal(known, &c); err != nil {
		return Criteria{}, apperr.Malformed(fmt.Errorf("filter arguments: %w", err))
	}
	return c, nil
}
