package ideas_test

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/myrjola/ideaforge/internal/models"
	"github.com/myrjola/ideaforge/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func newPipeline(t *testing.T, completer ideas.Completer) *ideas.Pipeline {
	t.Helper()
	p, err := ideas.NewPipeline(completer, ideas.Config{}, testhelpers.NewLogger(io.Discard)) //nolint:exhaustruct // defaults
	require.NoError(t, err)
	return p
}

func TestPipeline_Generate(t *testing.T) {
	completer := &fakeCompleter{ //nolint:exhaustruct // no expansion
		generate: answer("1. A\n2. B\n3. C\n4. D"),
		rank: answer(`[
			{"id": 1, "relevance": 3, "impact": 3, "feasibility": 3, "reason": "a"},
			{"id": 2, "relevance": 5, "impact": 5, "feasibility": 4, "reason": "b"},
			{"id": 3, "relevance": 4, "impact": 3, "feasibility": 2, "reason": "c"},
			{"id": 4, "relevance": 1, "impact": 2, "feasibility": 3, "reason": "d"}
		]`),
	}

	ranked, err := newPipeline(t, completer).Generate(context.Background(), "q")
	require.NoError(t, err)

	// Equal scores keep their generation order.
	gotIDs := make([]int, len(ranked))
	for i, r := range ranked {
		gotIDs[i] = r.ID
	}
	require.Equal(t, []int{2, 1, 3, 4}, gotIDs)
	for i := 1; i < len(ranked); i++ {
		require.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestPipeline_GenerateRankingFailureKeepsOrder(t *testing.T) {
	completer := &fakeCompleter{generate: answer("A\nB\nC"), rank: fail()} //nolint:exhaustruct // no expansion

	ranked, err := newPipeline(t, completer).Generate(context.Background(), "q")
	require.NoError(t, err)
	requireDefaults(t, ranked, []models.Idea{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}, {ID: 3, Text: "C"}})
}

func TestPipeline_GenerateValidation(t *testing.T) {
	completer := &fakeCompleter{} //nolint:exhaustruct // must not be called
	_, err := newPipeline(t, completer).Generate(context.Background(), "")
	require.ErrorIs(t, err, ideas.ErrQueryRequired)
	require.Equal(t, "Query is required.", ideas.ClientMessage(err))
	require.Empty(t, completer.Requests())
}

func TestPipeline_GenerateStopsOnGeneratorFailure(t *testing.T) {
	completer := &fakeCompleter{generate: answer(""), rank: fail()} //nolint:exhaustruct // no expansion
	_, err := newPipeline(t, completer).Generate(context.Background(), "q")
	require.ErrorIs(t, err, ideas.ErrNoIdeas)
	require.Len(t, completer.Requests(), 1, "ranking must not run")
}

func TestSortByScore(t *testing.T) {
	ranked := []models.RankedIdea{
		{Idea: models.Idea{ID: 1, Text: "a"}, Score: 9},
		{Idea: models.Idea{ID: 2, Text: "b"}, Score: 12},
		{Idea: models.Idea{ID: 3, Text: "c"}, Score: 9},
		{Idea: models.Idea{ID: 4, Text: "d"}, Score: 15},
	}
	ideas.SortByScore(ranked)
	got := make([]int, len(ranked))
	for i, r := range ranked {
		got[i] = r.ID
	}
	require.Equal(t, []int{4, 2, 1, 3}, got)
}

func TestClientMessage(t *testing.T) {
	require.Equal(t, "", ideas.ClientMessage(errProvider))
	require.Equal(t, "No ideas generated.", ideas.ClientMessage(ideas.ErrNoIdeas))
}
