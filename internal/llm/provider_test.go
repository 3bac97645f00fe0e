package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddqcheck/internal/finding"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

// TestOpenAIProviderRetriesServerErrors verifies the chat request and retry on 5xx.
func TestOpenAIProviderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"status":"OK","reason":"Looks complete."}`))
	}))
	t.Cleanup(server.Close)

	provider, err := NewOpenAI(OpenAIOptions{APIKey: "test-key", BaseURL: server.URL + "/", HTTPClient: server.Client()})
	require.NoError(t, err)
	refiner := newTestRefiner(t, provider, Options{Model: "test-model", Retries: 3, RetryDelay: time.Millisecond})

	out, err := refiner.Refine(context.Background(), []finding.Finding{flaggedFinding(1, finding.StatusIncomplete, nil)})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, finding.StatusOK, out[0].Status)
	assert.Equal(t, "Looks complete.", out[0].Reason)

	assert.Equal(t, "test-model", body["model"])
	assert.Equal(t, float64(0), body["temperature"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

// TestOpenAIProviderClientErrorIsNotRetried verifies 4xx responses stop retries.
func TestOpenAIProviderClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(server.Close)

	provider, err := NewOpenAI(OpenAIOptions{APIKey: "test-key", BaseURL: server.URL + "/", HTTPClient: server.Client()})
	require.NoError(t, err)
	refiner := newTestRefiner(t, provider, Options{Retries: 3})

	out, err := refiner.Refine(context.Background(), []finding.Finding{flaggedFinding(1, finding.StatusIncomplete, nil)})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, out[0].Details, "llm_error")
}

// TestNewProviderRequiresCredential verifies ErrDisabled and provider selection.
func TestNewProviderRequiresCredential(t *testing.T) {
	env := map[string]string{}
	getenv := func(key string) string { return env[key] }

	_, err := NewProvider(context.Background(), ProviderConfig{Name: ProviderOpenAI}, getenv)
	require.ErrorIs(t, err, ErrDisabled)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	_, err = NewProvider(context.Background(), ProviderConfig{Name: ProviderGemini}, getenv)
	require.ErrorIs(t, err, ErrDisabled)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	env["CUSTOM_KEY"] = "secret"
	provider, err := NewProvider(context.Background(), ProviderConfig{APIKeyEnv: "CUSTOM_KEY"}, getenv)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, provider.Name())

	_, err = NewProvider(context.Background(), ProviderConfig{Name: "mystery", APIKeyEnv: "CUSTOM_KEY"}, getenv)
	assert.Error(t, err)
}

// TestNewGeminiRequiresKey verifies constructor validation.
func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiOptions{})
	assert.Error(t, err)
	assert.Equal(t, DefaultGeminiModel, DefaultModel("Gemini"))
	assert.Equal(t, DefaultOpenAIModel, DefaultModel(""))
}
