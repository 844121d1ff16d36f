// Package ideas turns a free-text query into ranked ideas and expands selected ideas into suggestions by
// delegating the generative work to a chat completion model.
package ideas

import (
	"context"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/errors"
	"log/slog"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "llama-3.3-70b-versatile"

const temperature = 0.7

// These errors carry the messages shown to API clients.
var (
	ErrQueryRequired   = errors.NewSentinel("Query is required.")
	ErrGenerateFailed  = errors.NewSentinel("Failed to generate ideas.")
	ErrNoIdeas         = errors.NewSentinel("No ideas generated.")
	ErrSelectionCount  = errors.NewSentinel("Exactly two ideas must be selected.")
	ErrSuggestFailed   = errors.NewSentinel("Failed to generate suggestions.")
	ErrUnknownStrategy = errors.NewSentinel("unknown merge strategy")
)

// Completer submits a chat-style prompt and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// MergeStrategy decides how ranking entries are matched with ideas.
type MergeStrategy string

const (
	// MergeByPosition overlays the i-th ranking entry on the i-th idea regardless of the entry's id.
	MergeByPosition MergeStrategy = "position"
	// MergeByID overlays a ranking entry on the idea with the same id.
	MergeByID MergeStrategy = "id"
)

// ParseMergeStrategy accepts "position" and "id". The empty string means MergeByPosition.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(s) {
	case MergeByPosition, "":
		return MergeByPosition, nil
	case MergeByID:
		return MergeByID, nil
	default:
		return "", errors.Wrap(ErrUnknownStrategy, "parse merge strategy", slog.String("strategy", s))
	}
}

type Config struct {
	Model string
	Merge MergeStrategy
	// Hook is optional.
	Hook Hook
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Merge == "" {
		c.Merge = MergeByPosition
	}
	if c.Hook == nil {
		c.Hook = nopHook{}
	}
	return c
}
