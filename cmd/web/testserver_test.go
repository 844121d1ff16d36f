package main

import (
	"context"
	"errors"
	"github.com/myrjola/ideaforge/internal/e2etest"
	"github.com/myrjola/ideaforge/internal/testhelpers"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

var errProviderDown = errors.New("provider down")

// stages answers the fake completion API per pipeline stage, told apart by the token limit of the request.
type stages struct {
	generate func() (string, error)
	rank     func() (string, error)
	expand   func(req openai.ChatCompletionRequest) (string, error)
}

func (s stages) respond(req openai.ChatCompletionRequest) (string, error) {
	var stage func() (string, error)
	switch req.MaxTokens {
	case 150: //nolint:mnd // generation limit
		stage = s.generate
	case 500: //nolint:mnd // ranking limit
		stage = s.rank
	case 300: //nolint:mnd // expansion limit
		if s.expand != nil {
			return s.expand(req)
		}
	}
	if stage == nil {
		return "", errProviderDown
	}
	return stage()
}

func reply(content string) func() (string, error) {
	return func() (string, error) {
		return content, nil
	}
}

func failing() func() (string, error) {
	return func() (string, error) {
		return "", errProviderDown
	}
}

// startTestServer runs the application on a random port against a fake completion API. env overrides the
// test defaults.
func startTestServer(t *testing.T, s stages, env map[string]string) (*e2etest.Server, *testhelpers.OpenAIServer) {
	t.Helper()
	provider := testhelpers.NewOpenAIServer(t, s.respond)
	lookupEnv := func(key string) (string, bool) {
		if v, ok := env[key]; ok {
			return v, true
		}
		switch key {
		case "IDEAFORGE_ADDR":
			return "localhost:0", true
		case "GROQ_API_KEY":
			return "test-key", true
		case "GROQ_BASE_URL":
			return provider.URL, true
		default:
			return "", false
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server, provider
}
