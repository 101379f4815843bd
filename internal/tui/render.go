// Package tui renders results for the terminal and reads interactive input.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/config"
	"github.com/sant0-9/gptkit/internal/llm"
	"github.com/sant0-9/gptkit/internal/pipeline"
	"github.com/sant0-9/gptkit/internal/report"
	"github.com/sant0-9/gptkit/internal/search"
)

const (
	maxNameWidth = 48
	reportRule   = 80
	bannerRule   = 50
)

// Printer writes styled output to w. Colors are dropped automatically when
// w is not a terminal.
type Printer struct {
	w  io.Writer
	st styles
}

// NewPrinter creates a new printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, st: newStyles(lipgloss.NewRenderer(w))}
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Step prints a progress line.
func (p *Printer) Step(msg string) {
	p.println(p.st.muted.Render("> " + msg))
}

// Products prints the numbered match list, or a notice when nothing matched.
func (p *Printer) Products(res *search.Result) {
	p.println(p.st.subtitle.Render("Criteria: " + res.Criteria.String()))

	if len(res.Products) == 0 {
		p.println("")
		p.println("No products match your preferences.")
		return
	}

	p.println("")
	p.println(p.st.title.Render("Filtered Products:"))
	for i, r := range res.Products {
		stock := p.st.success.Render("In Stock")
		if !r.InStock {
			stock = p.st.muted.Render("Out of Stock")
		}
		p.println(fmt.Sprintf("%d. %s - $%.2f, Rating: %s, %s",
			i+1, truncate(r.Name, maxNameWidth), r.Price, formatRating(r.Rating), stock))
	}
}

// formatRating always keeps one decimal, so 4 prints as 4.0.
func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Report prints the markdown between two rules.
func (p *Printer) Report(r *report.Report) {
	rule := strings.Repeat("=", reportRule)
	p.println("")
	p.println(rule)
	p.println(r.Markdown)
	p.println(rule)
	if len(r.Missing) > 0 {
		p.println(p.st.muted.Render("Missing sections: " + strings.Join(r.Missing, ", ")))
	}
}

// Saved reports a file written on the user's behalf.
func (p *Printer) Saved(what, path string) {
	p.println(p.st.success.Render(fmt.Sprintf("%s saved to %s", what, path)))
}

// Pipeline prints the summary, analysis and output paths of an audio run.
func (p *Printer) Pipeline(res *pipeline.Result, elapsed time.Duration) error {
	analysis, err := pipeline.MarshalAnalysis(res.Analysis)
	if err != nil {
		return err
	}

	banner := strings.Repeat("=", bannerRule)
	section := strings.Repeat("-", bannerRule)

	p.println("")
	p.println(banner)
	p.println(p.st.title.Render("PROCESSING COMPLETE"))
	p.println(banner)
	p.println(fmt.Sprintf("Processing time: %.2f seconds", elapsed.Seconds()))
	if res.Duration > 0 {
		p.println(fmt.Sprintf("Audio duration: %.2f seconds", res.Duration))
	}

	p.println("")
	p.println(p.st.accent.Render("SUMMARY:"))
	p.println(section)
	p.println(res.Summary)

	p.println("")
	p.println(p.st.accent.Render("ANALYSIS:"))
	p.println(section)
	p.println(string(analysis))

	p.println("")
	p.println("Output files:")
	p.println(fmt.Sprintf("- Transcription: %s", res.Files.Transcription))
	p.println(fmt.Sprintf("- Summary: %s", res.Files.Summary))
	p.println(fmt.Sprintf("- Analysis: %s", res.Files.Analysis))
	return nil
}

// Error prints err with hints for the common failure causes.
func (p *Printer) Error(err error) {
	p.println(p.st.err.Render("Error: " + err.Error()))
	for _, s := range Suggestions(err) {
		p.println(p.st.muted.Render("  " + s))
	}
}

// Suggestions returns hints for resolving err.
func Suggestions(err error) []string {
	if errors.Is(err, apperr.ErrCancelled) {
		return nil
	}

	if errors.Is(err, apperr.ErrMissingCredential) {
		hints := []string{
			"Set your API key as an environment variable:",
			"export OPENAI_API_KEY=your_api_key_here",
		}
		var credErr *config.CredentialError
		if errors.As(err, &credErr) && credErr.Provider.SignupURL != "" {
			hints = append(hints, fmt.Sprintf("Get a %s key at %s", credErr.Provider.Name, credErr.Provider.SignupURL))
		}
		return hints
	}

	if status, ok := llm.StatusCode(err); ok {
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return []string{"Check the api_key in ~/.config/gptkit/gptkit.yaml or OPENAI_API_KEY"}
		case status == http.StatusTooManyRequests:
			return []string{"You've hit the API rate limit", "Wait a moment and try again"}
		case status == http.StatusNotFound:
			return []string{"Check the model names under models: in gptkit.yaml"}
		case status >= http.StatusInternalServerError:
			return []string{"The API is having trouble", "Wait a moment and try again"}
		}
	}

	if errors.Is(err, llm.ErrUnsupported) {
		stage, _ := apperr.StageOf(err)
		switch stage {
		case apperr.StageTranscription:
			return []string{"This provider has no transcription endpoint", "Use provider openai, groq or custom"}
		case apperr.StageClassification:
			return []string{"This provider cannot be forced to call a function", "Use a provider and model with tool support"}
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		if strings.Contains(err.Error(), "ollama") {
			return []string{"Make sure Ollama is running: ollama serve"}
		}
		return []string{"Check your internet connection", "Or check base_url in gptkit.yaml"}
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		return []string{"The request timed out", "Raise the timeout setting"}
	case errors.Is(err, apperr.ErrMissingInput):
		return []string{"Check the file path is correct"}
	}
	return nil
}
