package ideas_test

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/ideas"
	"sync"
)

var errProvider = errors.NewSentinel("provider unavailable")

// fakeCompleter answers by prompt kind which it recognises from the token budget.
type fakeCompleter struct {
	mu       sync.Mutex
	generate func() (string, error)
	rank     func() (string, error)
	expand   func(req ai.CompletionRequest) (string, error)
	requests []ai.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	var respond func() (string, error)
	switch req.MaxTokens {
	case 150:
		respond = f.generate
	case 500:
		respond = f.rank
	case 300:
		if f.expand != nil {
			return f.expand(req)
		}
	}
	if respond == nil {
		return "", errors.New("unexpected completion request")
	}
	return respond()
}

func (f *fakeCompleter) Requests() []ai.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ai.CompletionRequest(nil), f.requests...)
}

func answer(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func fail() func() (string, error) {
	return func() (string, error) { return "", errProvider }
}

// recordingHook collects events for assertions.
type recordingHook struct {
	mu     sync.Mutex
	events []ideas.Event
}

func (h *recordingHook) Observe(_ context.Context, e ideas.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHook) Outcomes(stage ideas.Stage) []ideas.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ideas.Outcome
	for _, e := range h.events {
		if e.Stage == stage {
			out = append(out, e.Outcome)
		}
	}
	return out
}
