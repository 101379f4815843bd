package llm

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when a backend lacks the requested capability.
var ErrUnsupported = errors.New("not supported by provider")

// Provider is the interface all LLM backends implement
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a chat completion request and returns the full response
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Transcribe converts an audio file to text
	Transcribe(ctx context.Context, req *TranscriptionRequest) (*Transcription, error)

	// Ping checks if the provider is reachable
	Ping(ctx context.Context) error
}

// CompletionRequest represents a request to the LLM
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32

	// JSON asks for a response that is a single JSON object.
	JSON bool

	// Tool, when set, is declared as the only function and the model is
	// forced to call it. The arguments come back in CompletionResponse.ToolArguments.
	Tool *Tool
}

// Message represents a chat message
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Tool declares a function the model can call.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON schema, typically a jsonschema.Definition.
	Parameters any
}

// CompletionResponse represents the full response
type CompletionResponse struct {
	Content       string
	ToolArguments string
	Model         string
	FinishReason  string
	Usage         Usage
}

// Usage tracks token usage
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// TranscriptionRequest describes an audio file to transcribe.
type TranscriptionRequest struct {
	Model    string
	FilePath string
	// Language is an optional ISO-639-1 hint.
	Language string
	// Prompt provides context to improve recognition of domain-specific terms.
	Prompt string
}

// Transcription is the service's result. Duration is zero when the
// backend does not report it.
type Transcription struct {
	Text     string
	Language string
	Duration float64 // seconds
}

// NewRequest creates a simple completion request
func NewRequest(model string, systemPrompt, userPrompt string) *CompletionRequest {
	return &CompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
	}
}
