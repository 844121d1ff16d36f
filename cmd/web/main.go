package main

import (
	"context"
	"github.com/joho/godotenv"
	"github.com/myrjola/ideaforge/internal/ai"
	"github.com/myrjola/ideaforge/internal/envstruct"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/myrjola/ideaforge/internal/logging"
	"github.com/myrjola/ideaforge/internal/metrics"
	"github.com/myrjola/ideaforge/internal/pprofserver"
	"io/fs"
	"log/slog"
	"os"
)

type application struct {
	logger     *slog.Logger
	pipeline   *ideas.Pipeline
	metrics    *metrics.Metrics
	production bool
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"IDEAFORGE_ADDR" envDefault:"0.0.0.0:5000"`
	// GroqAPIKey authenticates the completion requests.
	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model       string `env:"IDEAFORGE_MODEL" envDefault:"llama-3.3-70b-versatile"`
	// Environment enables the HTTPS redirect when set to production.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	// RankingMerge is either position or id.
	RankingMerge   string `env:"RANKING_MERGE" envDefault:"position"`
	PipelineEvents bool   `env:"PIPELINE_EVENTS" envDefault:"false"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	// PprofAddr starts the pprof server when not empty. Keep it on a loopback address.
	PprofAddr string `env:"PPROF_ADDR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg   config
		merge ideas.MergeStrategy
		err   error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	if merge, err = ideas.ParseMergeStrategy(cfg.RankingMerge); err != nil {
		return errors.Wrap(err, "ranking merge strategy")
	}

	var hooks ideas.Hooks
	if cfg.PipelineEvents {
		hooks = append(hooks, ideas.LogHook(logger))
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		hooks = append(hooks, m)
	}

	completer := ai.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, nil)
	var pipeline *ideas.Pipeline
	if pipeline, err = ideas.NewPipeline(completer, ideas.Config{
		Model: cfg.Model,
		Merge: merge,
		Hook:  hooks,
	}, logger); err != nil {
		return errors.Wrap(err, "new pipeline")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	app := application{
		logger:     logger,
		pipeline:   pipeline,
		metrics:    m,
		production: cfg.Environment == "production",
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	// The .env file is optional, deployments configure the environment directly.
	dotenvErr := godotenv.Load()

	level, err := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := logging.NewTextLogger(os.Stdout, level)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "falling back to info level", errors.SlogError(err))
	}
	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(dotenvErr))
		os.Exit(1)
	}

	if err = run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
