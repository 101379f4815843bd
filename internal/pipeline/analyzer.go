package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/prompts"
	"github.com/sant0-9/gptkit/internal/validate"
)

// TopTopics is how many topics the model is asked for.
const TopTopics = 5

// Analysis is the statistics document written to analysis.json.
type Analysis struct {
	WordCount                 int     `json:"word_count"`
	SpeakingSpeedWPM          *int    `json:"speaking_speed_wpm"`
	FrequentlyMentionedTopics []Topic `json:"frequently_mentioned_topics"`
}

// Topic is one frequently mentioned theme.
type Topic struct {
	Topic    string `json:"topic"`
	Mentions int    `json:"mentions"`
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// SpeakingSpeed returns words per minute, truncated, or nil when the
// duration is unknown.
func SpeakingSpeed(words int, seconds float64) *int {
	if seconds <= 0 {
		return nil
	}
	wpm := int(float64(words) / seconds * 60)
	return &wpm
}

// Analyzer extracts transcript statistics
type Analyzer struct {
	provider llm.Provider
	model    string
	prompts  *prompts.Library
}

func NewAnalyzer(provider llm.Provider, model string, lib *prompts.Library) *Analyzer {
	return &Analyzer{
		provider: provider,
		model:    model,
		prompts:  lib,
	}
}

// Analyze counts words locally and asks the model for the topics. The
// model also returns a word count and speed; both are replaced by the
// local values.
func (a *Analyzer) Analyze(ctx context.Context, transcript string, seconds float64) (*Analysis, error) {
	tmpl, err := a.prompts.Get(prompts.Analyze)
	if err != nil {
		return nil, err
	}
	req, err := tmpl.Request(a.model, map[string]any{
		"Text":      transcript,
		"TopTopics": TopTopics,
	})
	if err != nil {
		return nil, err
	}
	req.JSON = true

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("stage", string(apperr.StageAnalysis)).Msg("analysis call failed")
		return nil, apperr.NewStageError(apperr.StageAnalysis, err)
	}

	topics, err := parseTopics(resp.Content)
	if err != nil {
		log.Error().Err(err).Str("content", resp.Content).Msg("could not decode analysis")
		return nil, apperr.NewStageError(apperr.StageAnalysis, err)
	}

	words := CountWords(transcript)
	return &Analysis{
		WordCount:                 words,
		SpeakingSpeedWPM:          SpeakingSpeed(words, seconds),
		FrequentlyMentionedTopics: topics,
	}, nil
}

type modelTopic struct {
	Topic    string  `json:"topic" validate:"required"`
	Mentions float64 `json:"mentions" validate:"gte=0"`
}

type modelAnalysis struct {
	Topics []modelTopic `json:"frequently_mentioned_topics" validate:"dive"`
}

// parseTopics decodes the topic list of a model response. Fractional
// mention counts are rounded.
func parseTopics(content string) ([]Topic, error) {
	var raw modelAnalysis
	if err := json.Unmarshal([]byte(llm.StripCodeFence(content)), &raw); err != nil {
		return nil, apperr.Malformed(err)
	}
	if err := validate.Struct(raw); err != nil {
		return nil, apperr.Malformed(fmt.Errorf("analysis: %w", err))
	}

	topics := make([]Topic, 0, len(raw.Topics))
	for _, t := range raw.Topics {
		topics = append(topics, Topic{
			Topic:    strings.TrimSpace(t.Topic),
			Mentions: int(math.Round(t.Mentions)),
		})
	}
	return topics, nil
}
