package idea

import (
	"encoding/json"
	"fmt"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/envstruct"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/myrjola/ideaforge/internal/logging"
	"github.com/myrjola/ideaforge/internal/models"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var Group = &cobra.Group{
	ID:    "idea",
	Title: "Idea operations",
}

var ErrInvalidIdea = errors.NewSentinel("idea must have the form <id>=<text>")

type config struct {
	GroqAPIKey   string `env:"GROQ_API_KEY"`
	GroqBaseURL  string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model        string `env:"IDEAFORGE_MODEL" envDefault:"llama-3.3-70b-versatile"`
	RankingMerge string `env:"RANKING_MERGE" envDefault:"position"`
}

func init() {
	Suggest.Flags().StringArray("idea", nil, `selected idea as <id>=<text>, e.g. --idea 1="Host a meetup"`)
	Generate.Flags().Bool("verbose", false, "log pipeline events to stderr")
	Suggest.Flags().Bool("verbose", false, "log pipeline events to stderr")
}

var Generate = &cobra.Command{
	Use:     "generate [query]",
	GroupID: "idea",
	Short:   "Generate ranked ideas",
	Long:    `Generates ideas for the query, ranks them and prints them as JSON sorted by descending score`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newPipeline(cmd, os.LookupEnv)
		if err != nil {
			return err
		}
		var ranked []models.RankedIdea
		if ranked, err = pipeline.Generate(cmd.Context(), strings.Join(args, " ")); err != nil {
			return errors.Wrap(err, "generate")
		}
		return printJSON(cmd.OutOrStdout(), ranked)
	},
}

var Suggest = &cobra.Command{
	Use:     "suggest --idea <id>=<text> --idea <id>=<text>",
	GroupID: "idea",
	Short:   "Expand two ideas",
	Long:    `Prints an overview and actionable suggestions for exactly two selected ideas as JSON`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, err := cmd.Flags().GetStringArray("idea")
		if err != nil {
			return errors.Wrap(err, "idea flag")
		}
		var selected []models.SelectedIdea
		if selected, err = ParseSelected(raw); err != nil {
			return err
		}
		var pipeline *ideas.Pipeline
		if pipeline, err = newPipeline(cmd, os.LookupEnv); err != nil {
			return err
		}
		var details []models.SuggestionDetail
		if details, err = pipeline.Suggest(cmd.Context(), selected); err != nil {
			return errors.Wrap(err, "suggest")
		}
		return printJSON(cmd.OutOrStdout(), details)
	},
}

// ParseSelected parses <id>=<text> pairs. Integer ids become JSON numbers, other ids JSON strings.
func ParseSelected(raw []string) ([]models.SelectedIdea, error) {
	selected := make([]models.SelectedIdea, 0, len(raw))
	for _, r := range raw {
		idText, text, ok := strings.Cut(r, "=")
		idText = strings.TrimSpace(idText)
		if !ok || idText == "" {
			return nil, errors.Wrap(ErrInvalidIdea, "parse idea", slog.String("idea", r))
		}
		var id json.RawMessage
		if n, err := strconv.Atoi(idText); err == nil {
			id = json.RawMessage(strconv.Itoa(n))
		} else if id, err = json.Marshal(idText); err != nil {
			return nil, errors.Wrap(err, "marshal id", slog.String("idea", r))
		}
		selected = append(selected, models.SelectedIdea{ID: id, Text: text})
	}
	return selected, nil
}

func newPipeline(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*ideas.Pipeline, error) {
	var (
		cfg   config
		merge ideas.MergeStrategy
		err   error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate config")
	}
	if merge, err = ideas.ParseMergeStrategy(cfg.RankingMerge); err != nil {
		return nil, errors.Wrap(err, "ranking merge strategy")
	}

	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(cmd.ErrOrStderr(), level)

	var pipeline *ideas.Pipeline
	if pipeline, err = ideas.NewPipeline(ai.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, nil), ideas.Config{
		Model: cfg.Model,
		Merge: merge,
		Hook:  ideas.LogHook(logger),
	}, logger); err != nil {
		return nil, errors.Wrap(err, "new pipeline")
	}
	return pipeline, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	if _, err = fmt.Fprintln(w, string(out)); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}
