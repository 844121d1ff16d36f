package testhelpers

import (
	"encoding/json"
	"github.com/sashabaranov/go-openai"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Responder produces the completion content for a chat completion request.
// A returned error is reported to the client as an HTTP 500 API error.
type Responder func(req openai.ChatCompletionRequest) (string, error)

// OpenAIServer is a fake of the OpenAI-compatible chat completions endpoint.
type OpenAIServer struct {
	*httptest.Server

	calls atomic.Int64
}

// NewOpenAIServer starts a fake chat completions API that answers with respond. Use URL as the client base URL.
func NewOpenAIServer(t testing.TB, respond Responder) *OpenAIServer {
	t.Helper()
	s := &OpenAIServer{} //nolint:exhaustruct // server is set below
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/completions", func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		content, err := respond(req)
		if err != nil {
			writeAPIError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ //nolint:exhaustruct // only what the client reads
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{
				{ //nolint:exhaustruct // only what the client reads
					Index: 0,
					Message: openai.ChatCompletionMessage{ //nolint:exhaustruct // plain text answer
						Role:    openai.ChatMessageRoleAssistant,
						Content: content,
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
		})
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Calls returns how many completion requests the server has received.
func (s *OpenAIServer) Calls() int {
	return int(s.calls.Load())
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "server_error",
		},
	})
}
