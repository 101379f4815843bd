package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves just enough of the OpenAI API for the provider tests and
// records the last decoded chat request.
type fakeAPI struct {
	t        *testing.T
	status   int
	chatBody string
	lastChat map[string]any
	lastForm map[string]string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer sk-test", r.Header.Get("Authorization"))
		f.lastChat = map[string]any{}
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.lastChat))
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		_, _ = w.Write([]byte(f.chatBody))
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(f.t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			f.lastForm[k] = v[0]
		}
		_, _, err := r.FormFile("file")
		assert.NoError(f.t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task":"transcribe","language":"english","duration":30,"text":"hello there general"}`))
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4","object":"model"}]}`))
	})
	return mux
}

func newTestProvider(t *testing.T, api *fakeAPI, transcription bool) *OpenAIProvider {
	t.Helper()
	api.t = t
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	return NewOpenAIProvider(OpenAIOptions{
		Name:          "openai",
		APIKey:        "sk-test",
		BaseURL:       srv.URL + "/v1",
		Model:         "gpt-3.5-turbo",
		Timeout:       5 * time.Second,
		Transcription: transcription,
		Tools:         true,
	})
}

const chatOK = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "gpt-3.5-turbo",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "A short summary."}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
}`

func TestComplete(t *testing.T) {
	api := &fakeAPI{chatBody: chatOK}
	p := newTestProvider(t, api, false)

	req := NewRequest("", "You summarize.", "Please summarize this.")
	req.Temperature = 0.5
	req.MaxTokens = 100

	resp, err := p.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "A short summary.", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 14, resp.Usage.TotalTokens)
	assert.Empty(t, resp.ToolArguments)

	assert.Equal(t, "gpt-3.5-turbo", api.lastChat["model"])
	assert.EqualValues(t, 100, api.lastChat["max_tokens"])
	msgs := api.lastChat["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "Please summarize this.", msgs[1].(map[string]any)["content"])
	assert.NotContains(t, api.lastChat, "response_format")
	assert.NotContains(t, api.lastChat, "tools")
}

func TestCompleteJSONMode(t *testing.T) {
	api := &fakeAPI{chatBody: chatOK}
	p := newTestProvider(t, api, false)

	req := NewRequest("gpt-4o", "sys", "user")
	req.JSON = true
	_, err := p.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", api.lastChat["model"])
	format := api.lastChat["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
}

func TestCompleteTool(t *testing.T) {
	api := &fakeAPI{chatBody: `{
		"id": "chatcmpl-2",
		"object": "chat.completion",
		"model": "gpt-3.5-turbo-0125",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {
			"role": "assistant",
			"content": null,
			"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "filter_products", "arguments": "{\"max_price\": 200}"}}]
		}}]
	}`}
	p := newTestProvider(t, api, false)

	req := NewRequest("", "sys", "user")
	req.Tool = &Tool{
		Name:        "filter_products",
		Description: "Filter products",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
	}

	resp, err := p.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"max_price": 200}`, resp.ToolArguments)

	tools := api.lastChat["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "filter_products", fn["name"])

	choice := api.lastChat["tool_choice"].(map[string]any)
	assert.Equal(t, "function", choice["type"])
	assert.Equal(t, "filter_products", choice["function"].(map[string]any)["name"])
}

func TestCompleteToolNotCalled(t *testing.T) {
	api := &fakeAPI{chatBody: chatOK}
	p := newTestProvider(t, api, false)

	req := NewRequest("", "sys", "user")
	req.Tool = &Tool{Name: "filter_products", Parameters: map[string]any{"type": "object"}}

	_, err := p.Complete(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not call filter_products")
}

func TestCompleteToolsUnsupported(t *testing.T) {
	p := NewOpenAIProvider(OpenAIOptions{Name: "local", BaseURL: "http://127.0.0.1:1/v1", Model: "llama3"})

	req := NewRequest("", "sys", "user")
	req.Tool = &Tool{Name: "filter_products"}
	_, err := p.Complete(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCompleteAPIError(t *testing.T) {
	api := &fakeAPI{
		status:   http.StatusTooManyRequests,
		chatBody: `{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`,
	}
	p := newTestProvider(t, api, false)

	_, err := p.Complete(context.Background(), NewRequest("", "sys", "user"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "Rate limit reached")

	status, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestCompleteNoChoices(t *testing.T) {
	api := &fakeAPI{chatBody: `{"id": "x", "object": "chat.completion", "choices": []}`}
	p := newTestProvider(t, api, false)

	_, err := p.Complete(context.Background(), NewRequest("", "sys", "user"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}

func TestTranscribe(t *testing.T) {
	api := &fakeAPI{}
	p := newTestProvider(t, api, true)

	audio := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3 fake audio"), 0o644))

	tr, err := p.Transcribe(context.Background(), &TranscriptionRequest{FilePath: audio})
	require.NoError(t, err)

	assert.Equal(t, "hello there general", tr.Text)
	assert.Equal(t, "english", tr.Language)
	assert.InDelta(t, 30.0, tr.Duration, 1e-9)
	assert.Equal(t, "whisper-1", api.lastForm["model"])
	assert.Equal(t, "verbose_json", api.lastForm["response_format"])
}

func TestTranscribeUnsupported(t *testing.T) {
	p := newTestProvider(t, &fakeAPI{}, false)

	_, err := p.Transcribe(context.Background(), &TranscriptionRequest{FilePath: "x.mp3"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPing(t *testing.T) {
	assert.NoError(t, newTestProvider(t, &fakeAPI{}, false).Ping(context.Background()))

	err := newTestProvider(t, &fakeAPI{status: http.StatusUnauthorized}, false).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}
