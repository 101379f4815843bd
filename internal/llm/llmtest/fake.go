// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"fmt"

	"github.com/sant0-9/gptkit/internal/llm"
)

// Provider returns queued responses in order and records every request.
type Provider struct {
	Responses     []Response
	Transcription *llm.Transcription
	TranscribeErr error
	PingErr       error

	// NoTools makes Complete reject requests that declare a tool.
	NoTools bool

	Requests       []*llm.CompletionRequest
	Transcriptions []*llm.TranscriptionRequest
}

// Response is one scripted Complete result.
type Response struct {
	Content       string
	ToolArguments string
	Err           error
}

var _ llm.Provider = (*Provider)(nil)

func (p *Provider) Name() string { return "fake" }

func (p *Provider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.Requests = append(p.Requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Tool != nil && p.NoTools {
		return nil, fmt.Errorf("function calling: %w", llm.ErrUnsupported)
	}
	if len(p.Responses) == 0 {
		return nil, fmt.Errorf("llmtest: unexpected completion request %d", len(p.Requests))
	}

	r := p.Responses[0]
	p.Responses = p.Responses[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &llm.CompletionResponse{
		Content:       r.Content,
		ToolArguments: r.ToolArguments,
		Model:         req.Model,
		FinishReason:  "stop",
	}, nil
}

func (p *Provider) Transcribe(_ context.Context, req *llm.TranscriptionRequest) (*llm.Transcription, error) {
	p.Transcriptions = append(p.Transcriptions, req)
	if p.TranscribeErr != nil {
		return nil, p.TranscribeErr
	}
	if p.Transcription == nil {
		return nil, llm.ErrUnsupported
	}
	t := *p.Transcription
	return &t, nil
}

func (p *Provider) Ping(context.Context) error { return p.PingErr }
