package config

// ProviderInfo describes an OpenAI-compatible backend.
type ProviderInfo struct {
	ID          string
	Name        string
	Description string
	BaseURL     string
	NeedsAPIKey bool
	SignupURL   string

	// Transcription is false for backends without an audio transcription endpoint.
	Transcription bool

	// Tools is false for backends that cannot be forced to call a function.
	Tools bool
}

var Providers = []ProviderInfo{
	{
		ID:            "openai",
		Name:          "OpenAI",
		Description:   "GPT and Whisper models",
		BaseURL:       "https://api.openai.com/v1",
		NeedsAPIKey:   true,
		SignupURL:     "https://platform.openai.com/api-keys",
		Transcription: true,
		Tools:         true,
	},
	{
		ID:            "groq",
		Name:          "Groq",
		Description:   "Very fast, cheap",
		BaseURL:       "https://api.groq.com/openai/v1",
		NeedsAPIKey:   true,
		SignupURL:     "https://console.groq.com/keys",
		Transcription: true,
		Tools:         true,
	},
	{
		ID:          "openrouter",
		Name:        "OpenRouter",
		Description: "Access all models",
		BaseURL:     "https://openrouter.ai/api/v1",
		NeedsAPIKey: true,
		SignupURL:   "https://openrouter.ai/keys",
		Tools:       true,
	},
	{
		ID:          "ollama",
		Name:        "Ollama",
		Description: "Local, free, private",
		BaseURL:     "http://localhost:11434/v1",
		Tools:       true,
	},
	{
		ID:            "custom",
		Name:          "Custom",
		Description:   "Any OpenAI-compatible endpoint (base_url)",
		Transcription: true,
		Tools:         true,
	},
}

func GetProvider(id string) *ProviderInfo {
	for _, p := range Providers {
		if p.ID == id {
			return &p
		}
	}
	return nil
}
