package ideas_test

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/myrjola/ideaforge/internal/models"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestParseIdeas(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.Idea
	}{
		{
			name: "numbered list",
			raw:  "1. Start a podcast\n2. Host a meetup\n3. Write a newsletter",
			want: []models.Idea{
				{ID: 1, Text: "1. Start a podcast"},
				{ID: 2, Text: "2. Host a meetup"},
				{ID: 3, Text: "3. Write a newsletter"},
			},
		},
		{
			name: "blank lines and whitespace are dropped",
			raw:  "\n\n  1. Start a podcast  \r\n\t\n2. Host a meetup\n   ",
			want: []models.Idea{
				{ID: 1, Text: "1. Start a podcast"},
				{ID: 2, Text: "2. Host a meetup"},
			},
		},
		{
			name: "commentary is kept verbatim",
			raw:  "Here are some ideas:\n- Build a bot",
			want: []models.Idea{
				{ID: 1, Text: "Here are some ideas:"},
				{ID: 2, Text: "- Build a bot"},
			},
		},
		{
			name: "only whitespace",
			raw:  " \n\t\n ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ideas.ParseIdeas(tt.raw))
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	completer := &fakeCompleter{generate: answer("1. A\n\n2. B\n3. C\n")} //nolint:exhaustruct // only generation
	hook := &recordingHook{}                                              //nolint:exhaustruct // zero value
	g := ideas.NewGenerator(completer, ideas.Config{Hook: hook})          //nolint:exhaustruct // defaults

	got, err := g.Generate(context.Background(), "grow my bakery")
	require.NoError(t, err)
	require.Equal(t, []models.Idea{{ID: 1, Text: "1. A"}, {ID: 2, Text: "2. B"}, {ID: 3, Text: "3. C"}}, got)
	require.Equal(t, []ideas.Outcome{ideas.OutcomeOK}, hook.Outcomes(ideas.StageGenerate))

	requests := completer.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	require.Equal(t, ideas.DefaultModel, req.Model)
	require.InDelta(t, 0.7, req.Temperature, 0.0001)
	require.Equal(t, "You are an expert in generating creative and actionable ideas.", req.SystemPrompt)
	require.True(t, strings.HasPrefix(req.UserPrompt, "grow my bakery\n"))
	require.Contains(t, req.UserPrompt, "Generate 3 unique, short, and actionable ideas.")
}

func TestGenerator_GenerateFailures(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		completer := &fakeCompleter{generate: fail()}                    //nolint:exhaustruct // only generation
		g := ideas.NewGenerator(completer, ideas.Config{Model: "custom"}) //nolint:exhaustruct // defaults
		_, err := g.Generate(context.Background(), "q")
		require.ErrorIs(t, err, ideas.ErrGenerateFailed)
		require.ErrorIs(t, err, errProvider)
		require.Equal(t, "Failed to generate ideas.", ideas.ClientMessage(err))
		require.Equal(t, "custom", completer.Requests()[0].Model)
	})

	t.Run("no lines", func(t *testing.T) {
		completer := &fakeCompleter{generate: answer("\n   \n")} //nolint:exhaustruct // only generation
		hook := &recordingHook{}                                  //nolint:exhaustruct // zero value
		g := ideas.NewGenerator(completer, ideas.Config{Hook: hook}) //nolint:exhaustruct // defaults
		_, err := g.Generate(context.Background(), "q")
		require.ErrorIs(t, err, ideas.ErrNoIdeas)
		require.Equal(t, "No ideas generated.", ideas.ClientMessage(err))
		require.Equal(t, []ideas.Outcome{ideas.OutcomeError}, hook.Outcomes(ideas.StageGenerate))
	})
}
