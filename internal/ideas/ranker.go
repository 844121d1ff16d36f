package ideas

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/models"
	"github.com/myrjola/ideaforge/internal/salvage"
	"log/slog"
	"strings"
	"time"
)

const (
	rankSystemPrompt = `You are an AI assistant ranking ideas based on relevance, potential impact, and feasibility.
Respond with a valid JSON array where each object has the following structure:
{
  "id": <number>,
  "relevance": <1-5>,
  "impact": <1-5>,
  "feasibility": <1-5>,
  "reason": "<justification>"
}
Ensure the JSON is valid, complete, and includes all required fields.`
	// rankMaxTokens is larger than for generation because every entry carries a justification.
	rankMaxTokens = 500

	defaultSubScore = 3
)

var (
	errNotRankingArray = errors.NewSentinel("response is JSON but not an array of rankings")
	errNoRankings      = errors.NewSentinel("no usable rankings")
)

type Ranker struct {
	completer Completer
	extractor *salvage.Extractor
	model     string
	merge     MergeStrategy
	hook      Hook
	logger    *slog.Logger
}

func NewRanker(completer Completer, cfg Config, logger *slog.Logger) (*Ranker, error) {
	cfg = cfg.withDefaults()
	extractor, err := salvage.NewExtractor(logger, "id", "relevance", "impact", "feasibility")
	if err != nil {
		return nil, errors.Wrap(err, "new salvage extractor")
	}
	return &Ranker{
		completer: completer,
		extractor: extractor,
		model:     cfg.Model,
		merge:     cfg.Merge,
		hook:      cfg.Hook,
		logger:    logger.With(slog.String("component", "Ranker")),
	}, nil
}

// Rank scores ideas against query. It never fails: when no ranking can be obtained every idea gets the default
// scores of 3 and a total of 9, in input order.
func (r *Ranker) Rank(ctx context.Context, query string, ideas []models.Idea) []models.RankedIdea {
	start := time.Now()
	raw, entries, skipped, err := r.rankings(ctx, query, ideas)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "ranking failed, using default scores", errors.SlogError(err))
		ranked := DefaultRanking(ideas)
		r.hook.Observe(ctx, Event{
			Stage: StageRank, Outcome: OutcomeDefaulted, Duration: time.Since(start), Items: len(ranked),
			Skipped: skipped, Raw: raw, Err: err,
		})
		return ranked
	}

	var ranked []models.RankedIdea
	switch r.merge {
	case MergeByID:
		ranked = MergeByIDs(ideas, entries)
	default:
		ranked = MergeByPositions(ideas, entries)
	}

	outcome := OutcomeOK
	if !json.Valid([]byte(raw)) {
		outcome = OutcomeSalvaged
	}
	r.hook.Observe(ctx, Event{
		Stage: StageRank, Outcome: outcome, Duration: time.Since(start), Items: len(ranked), Skipped: skipped, Raw: raw,
	})
	return ranked
}

// rankings returns the trimmed completion, the parsed entries and the number of salvage fragments skipped.
func (r *Ranker) rankings(
	ctx context.Context,
	query string,
	ideas []models.Idea,
) (string, []models.RankingEntry, int, error) {
	texts := make([]string, len(ideas))
	for i, idea := range ideas {
		texts[i] = idea.Text
	}
	textsJSON, err := marshalNoEscape(texts)
	if err != nil {
		return "", nil, 0, errors.Wrap(err, "marshal idea texts")
	}

	raw, err := r.completer.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: rankSystemPrompt,
		UserPrompt:   "Query: " + query + "\nIdeas: " + textsJSON + "\nRank these ideas.",
		Model:        r.model,
		Temperature:  temperature,
		MaxTokens:    rankMaxTokens,
	})
	if err != nil {
		return "", nil, 0, errors.Wrap(err, "complete ranking")
	}
	raw = strings.TrimSpace(raw)

	var (
		entries []models.RankingEntry
		skipped int
	)
	if json.Valid([]byte(raw)) {
		if err = json.Unmarshal([]byte(raw), &entries); err != nil {
			return raw, nil, 0, errors.Join(errNotRankingArray, errors.Wrap(err, "unmarshal rankings"))
		}
	} else {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to parse full JSON, extracting valid parts")
		if entries, skipped, err = r.salvage(ctx, raw); err != nil {
			return raw, nil, skipped, errors.Wrap(err, "salvage rankings")
		}
	}

	// An empty ranking is masked with the defaults rather than answered with an empty list.
	if len(entries) == 0 {
		return raw, nil, skipped, errors.Wrap(errNoRankings, "collect rankings")
	}
	return raw, entries, skipped, nil
}

func (r *Ranker) salvage(ctx context.Context, raw string) ([]models.RankingEntry, int, error) {
	result, err := r.extractor.Extract(ctx, raw)
	if err != nil {
		return nil, 0, errors.Wrap(err, "extract objects")
	}
	skipped := result.Skipped
	entries := make([]models.RankingEntry, 0, len(result.Objects))
	for i, object := range result.Objects {
		var entry models.RankingEntry
		// Truthy but mistyped values such as "relevance": "4" pass the extractor but not this.
		if err = json.Unmarshal(object, &entry); err != nil {
			skipped++
			r.logger.LogAttrs(ctx, slog.LevelWarn, "skipping mistyped ranking",
				slog.Int("index", i), errors.SlogError(errors.Wrap(err, "unmarshal ranking")))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped, nil
}

func rankedIdea(idea models.Idea, entry models.RankingEntry) models.RankedIdea {
	return models.RankedIdea{
		Idea:        idea,
		Relevance:   entry.Relevance,
		Impact:      entry.Impact,
		Feasibility: entry.Feasibility,
		Reason:      entry.Reason,
		Score:       entry.Relevance + entry.Impact + entry.Feasibility,
	}
}

// MergeByPositions overlays entries[i] on ideas[i] regardless of which idea the entry meant. A non-zero entry id
// replaces the idea's id, so the result may repeat ids when the model numbers its entries differently.
//
// Only the first min(len(ideas), len(entries)) ideas are returned, so ideas the model did not rank are dropped.
func MergeByPositions(ideas []models.Idea, entries []models.RankingEntry) []models.RankedIdea {
	n := min(len(ideas), len(entries))
	ranked := make([]models.RankedIdea, n)
	for i := range n {
		ranked[i] = rankedIdea(ideas[i], entries[i])
		if entries[i].ID != 0 {
			ranked[i].ID = entries[i].ID
		}
	}
	return ranked
}

// MergeByIDs overlays each entry on the idea with the same id, keeping the order of ideas.
//
// Ideas without a matching entry are dropped. When the model repeats an id, the first entry wins.
func MergeByIDs(ideas []models.Idea, entries []models.RankingEntry) []models.RankedIdea {
	byID := make(map[int]models.RankingEntry, len(entries))
	for _, entry := range entries {
		if _, ok := byID[entry.ID]; !ok {
			byID[entry.ID] = entry
		}
	}
	ranked := make([]models.RankedIdea, 0, len(ideas))
	for _, idea := range ideas {
		if entry, ok := byID[idea.ID]; ok {
			ranked = append(ranked, rankedIdea(idea, entry))
		}
	}
	return ranked
}

// DefaultRanking gives every idea the default scores.
func DefaultRanking(ideas []models.Idea) []models.RankedIdea {
	ranked := make([]models.RankedIdea, len(ideas))
	for i, idea := range ideas {
		ranked[i] = rankedIdea(idea, models.RankingEntry{
			ID:          idea.ID,
			Relevance:   defaultSubScore,
			Impact:      defaultSubScore,
			Feasibility: defaultSubScore,
			Reason:      "",
		})
	}
	return ranked
}

// marshalNoEscape encodes v without escaping <, > and & so that the model sees the texts as typed.
func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "encode")
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
