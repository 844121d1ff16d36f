package ideas

import (
	"cmp"
	"context"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/models"
	"log/slog"
	"slices"
)

// Pipeline composes the generator, ranker and expander. It holds no per-request state.
type Pipeline struct {
	generator *Generator
	ranker    *Ranker
	expander  *Expander
}

func NewPipeline(completer Completer, cfg Config, logger *slog.Logger) (*Pipeline, error) {
	ranker, err := NewRanker(completer, cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "new ranker")
	}
	return &Pipeline{
		generator: NewGenerator(completer, cfg),
		ranker:    ranker,
		expander:  NewExpander(completer, cfg),
	}, nil
}

// Generate produces ideas for query and returns them ranked by descending score. Ideas with equal scores keep the
// order in which they were generated.
func (p *Pipeline) Generate(ctx context.Context, query string) ([]models.RankedIdea, error) {
	if query == "" {
		return nil, errors.Wrap(ErrQueryRequired, "validate query")
	}
	ideas, err := p.generator.Generate(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "generate ideas")
	}
	ranked := p.ranker.Rank(ctx, query, ideas)
	SortByScore(ranked)
	return ranked, nil
}

// Suggest expands exactly two selected ideas.
func (p *Pipeline) Suggest(ctx context.Context, selected []models.SelectedIdea) ([]models.SuggestionDetail, error) {
	details, err := p.expander.Expand(ctx, selected)
	if err != nil {
		return nil, errors.Wrap(err, "expand ideas")
	}
	return details, nil
}

// SortByScore sorts ranked by descending score with a stable sort.
func SortByScore(ranked []models.RankedIdea) {
	slices.SortStableFunc(ranked, func(a, b models.RankedIdea) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

// ClientMessage returns the message of the domain error err matches, or "" if it matches none.
func ClientMessage(err error) string {
	for _, sentinel := range []error{
		ErrQueryRequired, ErrNoIdeas, ErrGenerateFailed, ErrSelectionCount, ErrSuggestFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ""
}
