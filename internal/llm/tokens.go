package llm

import "strings"

// EstimateTokens returns approximate token count (~4 chars per token)
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// EstimateRequestTokens estimates the prompt size of req plus the tokens it
// reserves for the answer.
func EstimateRequestTokens(req *CompletionRequest) int {
	n := req.MaxTokens
	for _, m := range req.Messages {
		n += EstimateTokens(m.Content)
	}
	return n
}

// ContextLimit returns the context window size for a model
func ContextLimit(model string) int {
	model = strings.ToLower(model)

	// GPT-4 variants
	if strings.Contains(model, "gpt-4o") || strings.Contains(model, "gpt-4-turbo") || strings.Contains(model, "gpt-4.1") {
		return 128000
	}
	if strings.Contains(model, "gpt-4-32k") {
		return 32000
	}
	if strings.Contains(model, "gpt-4") {
		return 8000
	}

	// gpt-3.5-turbo has had a 16k window since the 1106 snapshot
	if strings.Contains(model, "gpt-3.5-turbo") {
		return 16000
	}

	// Llama variants
	if strings.Contains(model, "llama-3") || strings.Contains(model, "llama3") {
		return 128000
	}
	if strings.Contains(model, "llama") {
		return 8000
	}

	// Groq models
	if strings.Contains(model, "mixtral") {
		return 32000
	}

	// Default fallback
	return 8000
}
