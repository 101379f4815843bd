package llm

import (
	"fmt"

	"github.com/sant0-9/gptkit/internal/config"
)

// NewProvider creates the provider described by cfg. It is called once per
// run and the result is passed to every component that makes remote calls.
func NewProvider(cfg *config.Config) (Provider, error) {
	info := config.GetProvider(cfg.Provider)
	if info == nil {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	baseURL := info.BaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%s provider requires base_url", info.ID)
	}

	if info.NeedsAPIKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s requires an API key", info.ID)
	}

	return NewOpenAIProvider(OpenAIOptions{
		Name:          info.ID,
		APIKey:        cfg.APIKey,
		BaseURL:       baseURL,
		Model:         cfg.Models.Chat,
		Timeout:       cfg.Timeout,
		Transcription: info.Transcription,
		Tools:         info.Tools,
	}), nil
}
