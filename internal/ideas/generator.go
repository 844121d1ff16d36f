package ideas

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/models"
	"log/slog"
	"strings"
	"time"
)

const (
	generateSystemPrompt = "You are an expert in generating creative and actionable ideas."
	generateInstruction  = "Generate 3 unique, short, and actionable ideas. " +
		"Provide them as a numbered list without introductory or concluding statements."
	// generateMaxTokens keeps the list short. Verbose answers may get cut mid-idea.
	generateMaxTokens = 150
)

type Generator struct {
	completer Completer
	model     string
	hook      Hook
}

func NewGenerator(completer Completer, cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		completer: completer,
		model:     cfg.Model,
		hook:      cfg.Hook,
	}
}

// Generate asks the model for ideas about query.
//
// The returned error matches ErrGenerateFailed when the completion fails and ErrNoIdeas when the completion has no
// text lines.
func (g *Generator) Generate(ctx context.Context, query string) ([]models.Idea, error) {
	start := time.Now()
	raw, err := g.completer.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: generateSystemPrompt,
		UserPrompt:   query + "\n" + generateInstruction,
		Model:        g.model,
		Temperature:  temperature,
		MaxTokens:    generateMaxTokens,
	})
	if err != nil {
		err = errors.Join(ErrGenerateFailed, errors.Wrap(err, "complete ideas"))
		g.hook.Observe(ctx, Event{Stage: StageGenerate, Outcome: OutcomeError, Duration: time.Since(start), Err: err})
		return nil, err
	}

	ideas := ParseIdeas(raw)
	if len(ideas) == 0 {
		err = errors.Wrap(ErrNoIdeas, "parse ideas", slog.Int("length", len(raw)))
		g.hook.Observe(ctx, Event{
			Stage: StageGenerate, Outcome: OutcomeError, Duration: time.Since(start), Raw: raw, Err: err,
		})
		return nil, err
	}

	g.hook.Observe(ctx, Event{
		Stage: StageGenerate, Outcome: OutcomeOK, Duration: time.Since(start), Items: len(ideas), Raw: raw,
	})
	return ideas, nil
}

// ParseIdeas turns every non-blank line of raw into an idea. Line contents are kept verbatim apart from trimming.
func ParseIdeas(raw string) []models.Idea {
	var ideas []models.Idea
	for _, line := range strings.Split(raw, "\n") {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		ideas = append(ideas, models.Idea{ID: len(ideas) + 1, Text: text})
	}
	return ideas
}
