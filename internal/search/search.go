// Package search turns a free-text shopping request into filter criteria and
// applies them to the catalog.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/catalog"
	"github.com/sant0-9/gptkit/internal/filter"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/prompts"
)

// ToolName is the function the model is forced to call.
const ToolName = "filter_products"

// Classifier asks the model for the filter criteria matching a query.
type Classifier struct {
	provider llm.Provider
	model    string
	prompts  *prompts.Library
}

// NewClassifier creates a new classifier
func NewClassifier(provider llm.Provider, model string, lib *prompts.Library) *Classifier {
	return &Classifier{
		provider: provider,
		model:    model,
		prompts:  lib,
	}
}

// Tool describes filter_products. The category parameter lists the
// categories present in cat.
func Tool(cat *catalog.Catalog) *llm.Tool {
	categoryDesc := "The product category"
	if cats := cat.Categories(); len(cats) > 0 {
		categoryDesc = fmt.Sprintf("The product category (e.g., %s)", strings.Join(cats, ", "))
	}

	return &llm.Tool{
		Name:        ToolName,
		Description: "Filter products based on user preferences",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"category": {
					Type:        jsonschema.String,
					Description: categoryDesc,
				},
				"max_price": {
					Type:        jsonschema.Number,
					Description: "The maximum price the user is willing to pay",
				},
				"min_rating": {
					Type:        jsonschema.Number,
					Description: "The minimum rating (from 1 to 5)",
				},
				"in_stock": {
					Type:        jsonschema.Boolean,
					Description: "Whether the product should be in stock",
				},
			},
		},
	}
}

// Classify returns the criteria the model derived from query. The model is
// not trusted to be consistent; whatever it returns is decoded as-is.
func (c *Classifier) Classify(ctx context.Context, query string, cat *catalog.Catalog) (filter.Criteria, error) {
	tmpl, err := c.prompts.Get(prompts.ProductSearch)
	if err != nil {
		return filter.Criteria{}, err
	}

	products, err := cat.JSON()
	if err != nil {
		return filter.Criteria{}, err
	}

	req, err := tmpl.Request(c.model, map[string]string{
		"Query":   query,
		"Catalog": products,
	})
	if err != nil {
		return filter.Criteria{}, err
	}
	req.Tool = Tool(cat)

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("stage", string(apperr.StageClassification)).Msg("classifier call failed")
		return filter.Criteria{}, apperr.NewStageError(apperr.StageClassification, err)
	}

	log.Debug().Str("arguments", resp.ToolArguments).Str("model", resp.Model).Msg("classifier response")

	criteria, err := filter.ParseCriteria([]byte(resp.ToolArguments))
	if err != nil {
		log.Error().Err(err).Str("arguments", resp.ToolArguments).Msg("could not decode filter arguments")
		return filter.Criteria{}, apperr.NewStageError(apperr.StageClassification, err)
	}
	return criteria, nil
}

// Result is the outcome of one search.
type Result struct {
	Query    string           `json:"query"`
	Criteria filter.Criteria  `json:"criteria"`
	Products []catalog.Record `json:"products"`
}

// Service runs searches against one catalog.
type Service struct {
	classifier *Classifier
	catalog    *catalog.Catalog
}

// NewService creates a new search service
func NewService(classifier *Classifier, cat *catalog.Catalog) *Service {
	return &Service{classifier: classifier, catalog: cat}
}

// Search classifies query and filters the catalog with the result.
func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", apperr.ErrMissingInput)
	}

	criteria, err := s.classifier.Classify(ctx, query, s.catalog)
	if err != nil {
		return nil, err
	}

	products := filter.Apply(s.catalog.Products, criteria)
	log.Info().
		Stringer("criteria", criteria).
		Int("matched", len(products)).
		Int("total", len(s.catalog.Products)).
		Msg("filtered catalog")

	return &Result{
		Query:    query,
		Criteria: criteria,
		Products: products,
	}, nil
}
