package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible API: OpenAI itself, Groq,
// OpenRouter, Ollama's /v1 endpoint or a custom base URL.
type OpenAIProvider struct {
	name          string
	model         string
	transcription bool
	tools         bool
	client        *openai.Client
}

// OpenAIOptions configures an OpenAIProvider.
type OpenAIOptions struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Transcription enables Transcribe; backends without an audio endpoint leave it false.
	Transcription bool

	// Tools enables forced function calls in Complete.
	Tools bool
}

func NewOpenAIProvider(opts OpenAIOptions) *OpenAIProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	name := opts.Name
	if name == "" {
		name = "openai"
	}

	return &OpenAIProvider{
		name:          name,
		model:         opts.Model,
		transcription: opts.Transcription,
		tools:         opts.Tools,
		client:        openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAIProvider) Name() string {
	return o.name
}

func (o *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return o.wrap("ping", err)
	}
	return nil
}

func (o *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if req.Tool != nil && !o.tools {
		return nil, fmt.Errorf("function calling: %w", ErrUnsupported)
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if req.Tool != nil {
		apiReq.Tools = []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        req.Tool.Name,
				Description: req.Tool.Description,
				Parameters:  req.Tool.Parameters,
			},
		}}
		apiReq.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: req.Tool.Name},
		}
	}

	estimate := EstimateRequestTokens(req)
	log.Debug().Str("provider", o.name).Str("model", model).
		Bool("json", req.JSON).Bool("tool", req.Tool != nil).
		Int("estimated_tokens", estimate).Msg("chat completion request")
	if limit := ContextLimit(model); estimate > limit {
		log.Warn().Str("model", model).Int("estimated_tokens", estimate).Int("context_limit", limit).
			Msg("request may exceed the model's context window")
	}

	resp, err := o.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return nil, o.wrap("chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", o.name)
	}

	choice := resp.Choices[0]
	out := &CompletionResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if req.Tool != nil {
		call, ok := findToolCall(choice.Message.ToolCalls, req.Tool.Name)
		if !ok {
			return nil, fmt.Errorf("%s did not call %s", o.name, req.Tool.Name)
		}
		out.ToolArguments = call.Function.Arguments
	}

	log.Debug().Str("provider", o.name).Str("finish_reason", out.FinishReason).
		Int("total_tokens", out.Usage.TotalTokens).Msg("chat completion done")
	return out, nil
}

func (o *OpenAIProvider) Transcribe(ctx context.Context, req *TranscriptionRequest) (*Transcription, error) {
	if !o.transcription {
		return nil, fmt.Errorf("transcription: %w", ErrUnsupported)
	}

	model := req.Model
	if model == "" {
		model = openai.Whisper1
	}

	log.Debug().Str("provider", o.name).Str("model", model).Str("file", req.FilePath).Msg("transcription request")

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: req.FilePath,
		Language: req.Language,
		Prompt:   req.Prompt,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, o.wrap("transcription", err)
	}

	return &Transcription{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}

// wrap keeps the API's own message and status verbatim.
func (o *OpenAIProvider) wrap(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s %s error (status %d): %w", o.name, op, apiErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("%s %s request failed: %w", o.name, op, err)
}

// StatusCode returns the HTTP status of an API failure anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

func findToolCall(calls []openai.ToolCall, name string) (openai.ToolCall, bool) {
	for _, c := range calls {
		if c.Function.Name == name {
			return c, true
		}
	}
	return openai.ToolCall{}, false
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
