// Package report generates the eight-section markdown analysis of a
// service from its name or a description of it.
package report

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/prompts"
)

// Sections every report must contain, in order.
var Sections = []string{
	"Brief History",
	"Target Audience",
	"Core Features",
	"Unique Selling Points",
	"Business Model",
	"Tech Stack Insights",
	"Perceived Strengths",
	"Perceived Weaknesses",
}

// MaxNameWords is the longest input still treated as a service name.
const MaxNameWords = 3

// Kind says how the input is interpreted.
type Kind int

const (
	KindName Kind = iota
	KindDescription
)

func (k Kind) String() string {
	if k == KindName {
		return "name"
	}
	return "description"
}

// Classify treats input of at most three words as a service name.
func Classify(input string) Kind {
	if len(strings.Fields(input)) <= MaxNameWords {
		return KindName
	}
	return KindDescription
}

// Options configures the completion.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Generator produces reports
type Generator struct {
	provider llm.Provider
	prompts  *prompts.Library
	opts     Options
}

// NewGenerator creates a new generator
func NewGenerator(provider llm.Provider, lib *prompts.Library, opts Options) *Generator {
	return &Generator{
		provider: provider,
		prompts:  lib,
		opts:     opts,
	}
}

// Report is a generated document.
type Report struct {
	Input    string
	Kind     Kind
	Markdown string
	// Missing lists the required sections the model left out.
	Missing []string
}

// Generate asks the model for a report on input. A remote failure is
// returned as an error rather than being written into the report.
func (g *Generator) Generate(ctx context.Context, input string) (*Report, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty service name or description: %w", apperr.ErrMissingInput)
	}

	kind := Classify(input)
	name := prompts.ReportDescription
	if kind == KindName {
		name = prompts.ReportName
	}

	tmpl, err := g.prompts.Get(name)
	if err != nil {
		return nil, err
	}
	req, err := tmpl.Request(g.opts.Model, map[string]string{"Input": input})
	if err != nil {
		return nil, err
	}
	req.Temperature = g.opts.Temperature
	req.MaxTokens = g.opts.MaxTokens

	log.Debug().Stringer("kind", kind).Str("model", g.opts.Model).Msg("generating report")

	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("stage", string(apperr.StageReport)).Msg("report call failed")
		return nil, apperr.NewStageError(apperr.StageReport, err)
	}

	md := strings.TrimSpace(resp.Content)
	if md == "" {
		return nil, apperr.NewStageError(apperr.StageReport, apperr.Malformed(errors.New("empty report")))
	}

	missing := MissingSections(md)
	if len(missing) > 0 {
		log.Warn().Strs("sections", missing).Msg("report is missing sections")
	}

	return &Report{
		Input:    input,
		Kind:     kind,
		Markdown: md,
		Missing:  missing,
	}, nil
}

var headingPrefix = regexp.MustCompile(`^\s*(#{1,6}\s*)?([-*+]\s+)?(\d+[.)]\s*)?(\*\*)?`)

// MissingSections returns the required sections that no heading, list item
// or bold lead-in of md names, in the canonical order.
func MissingSections(md string) []string {
	var found []string
	for _, line := range strings.Split(md, "\n") {
		loc := headingPrefix.FindStringIndex(line)
		if loc == nil || strings.TrimSpace(line[:loc[1]]) == "" {
			continue
		}
		found = append(found, strings.ToLower(line[loc[1]:]))
	}

	var missing []string
	for _, section := range Sections {
		want := strings.ToLower(section)
		ok := false
		for _, rest := range found {
			if strings.HasPrefix(rest, want) {
				ok = true
				break
			}
		}
		if !ok {
			missing = append(missing, section)
		}
	}
	return missing
}
