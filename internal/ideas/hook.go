package ideas

import (
	"context"
	"github.com/myrjola/ideaforge/internal/errors"
	"log/slog"
	"time"
)

type Stage string

const (
	StageGenerate Stage = "generate"
	StageRank     Stage = "rank"
	StageExpand   Stage = "expand"
)

type Outcome string

const (
	OutcomeOK Outcome = "ok"
	// OutcomeError means the stage failed and the request is aborted.
	OutcomeError Outcome = "error"
	// OutcomeSalvaged means the ranking was recovered from malformed JSON.
	OutcomeSalvaged Outcome = "salvaged"
	// OutcomeDefaulted means the ranking was replaced with the default scores.
	OutcomeDefaulted Outcome = "defaulted"
)

// Event is emitted once per component call when it finishes.
type Event struct {
	Stage    Stage
	Outcome  Outcome
	Duration time.Duration
	// Items is the number of ideas or details produced.
	Items int
	// Skipped is the number of JSON fragments discarded while salvaging a ranking.
	Skipped int
	// Raw is the completion text, if one was received.
	Raw string
	Err error
}

// Hook observes the component boundaries of the pipeline. Observe may be called concurrently.
type Hook interface {
	Observe(ctx context.Context, e Event)
}

type HookFunc func(ctx context.Context, e Event)

func (f HookFunc) Observe(ctx context.Context, e Event) {
	f(ctx, e)
}

// Hooks fans an event out to every hook in order.
type Hooks []Hook

func (hs Hooks) Observe(ctx context.Context, e Event) {
	for _, h := range hs {
		h.Observe(ctx, e)
	}
}

type nopHook struct{}

func (nopHook) Observe(context.Context, Event) {}

// LogHook logs every event including the raw completion at debug level.
func LogHook(logger *slog.Logger) Hook {
	return HookFunc(func(ctx context.Context, e Event) {
		attrs := []slog.Attr{
			slog.String("stage", string(e.Stage)),
			slog.String("outcome", string(e.Outcome)),
			slog.Duration("duration", e.Duration),
			slog.Int("items", e.Items),
		}
		if e.Skipped > 0 {
			attrs = append(attrs, slog.Int("skipped", e.Skipped))
		}
		if e.Raw != "" {
			attrs = append(attrs, slog.String("raw", e.Raw))
		}
		if e.Err != nil {
			attrs = append(attrs, errors.SlogError(e.Err))
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "pipeline stage finished", attrs...)
	})
}
