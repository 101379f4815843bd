package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/prompts"
)

// Summarizer condenses a transcript
type Summarizer struct {
	provider llm.Provider
	model    string
	prompts  *prompts.Library
}

func NewSummarizer(provider llm.Provider, model string, lib *prompts.Library) *Summarizer {
	return &Summarizer{
		provider: provider,
		model:    model,
		prompts:  lib,
	}
}

// Summarize returns the model's summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	tmpl, err := s.prompts.Get(prompts.Summarize)
	if err != nil {
		return "", err
	}
	req, err := tmpl.Request(s.model, map[string]string{"Text": text})
	if err != nil {
		return "", err
	}

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("stage", string(apperr.StageSummarization)).Msg("summary call failed")
		return "", apperr.NewStageError(apperr.StageSummarization, err)
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		return "", apperr.NewStageError(apperr.StageSummarization,
			apperr.Malformed(errors.New("empty summary")))
	}
	return summary, nil
}
