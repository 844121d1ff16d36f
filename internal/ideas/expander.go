package ideas

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/models"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"strings"
	"time"
)

const (
	expandSystemPrompt = "You are an assistant that provides detailed suggestions for implementing ideas, " +
		"breaking them into Key Features and Actionable Suggestions. Limit to 3 points for each."
	expandMaxTokens = 300

	// SelectionSize is the number of ideas Expand accepts.
	SelectionSize = 2

	noOverview = "No overview provided."
)

type Expander struct {
	completer Completer
	model     string
	hook      Hook
}

func NewExpander(completer Completer, cfg Config) *Expander {
	cfg = cfg.withDefaults()
	return &Expander{
		completer: completer,
		model:     cfg.Model,
		hook:      cfg.Hook,
	}
}

// Expand breaks each selected idea down into an overview and suggestions. Both completions run concurrently and
// the result keeps the input order.
//
// Exactly SelectionSize ideas are required, otherwise ErrSelectionCount is returned before any completion. If any
// completion fails the whole expansion fails with ErrSuggestFailed.
func (x *Expander) Expand(ctx context.Context, selected []models.SelectedIdea) ([]models.SuggestionDetail, error) {
	if len(selected) != SelectionSize {
		return nil, errors.Wrap(ErrSelectionCount, "validate selection", slog.Int("count", len(selected)))
	}

	start := time.Now()
	details := make([]models.SuggestionDetail, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, idea := range selected {
		g.Go(func() error {
			raw, err := x.completer.Complete(gctx, ai.CompletionRequest{
				SystemPrompt: expandSystemPrompt,
				UserPrompt: "Provide a detailed breakdown for the idea: " + idea.Text +
					". Include an overview, key features, and actionable suggestions.",
				Model:       x.model,
				Temperature: temperature,
				MaxTokens:   expandMaxTokens,
			})
			if err != nil {
				return errors.Wrap(err, "complete suggestion", slog.String("idea_id", string(idea.ID)))
			}
			details[i] = ParseSuggestion(idea, raw)
			x.hook.Observe(ctx, Event{
				Stage: StageExpand, Outcome: OutcomeOK, Duration: time.Since(start), Items: 1, Raw: raw,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		err = errors.Join(ErrSuggestFailed, err)
		x.hook.Observe(ctx, Event{Stage: StageExpand, Outcome: OutcomeError, Duration: time.Since(start), Err: err})
		return nil, err
	}
	return details, nil
}

// ParseSuggestion splits raw into trimmed lines. Line 1 is the overview and lines 1 onwards are the suggestions,
// so the overview is also the first suggestion. Blank lines are kept.
func ParseSuggestion(idea models.SelectedIdea, raw string) models.SuggestionDetail {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	overview := noOverview
	suggestions := []string{}
	if len(lines) > 1 {
		if lines[1] != "" {
			overview = lines[1]
		}
		suggestions = lines[1:]
	}
	return models.SuggestionDetail{
		ID:          idea.ID,
		Title:       idea.Text,
		Overview:    overview,
		Suggestions: suggestions,
	}
}
