package main

import (
	"context"
	"github.com/myrjola/ideaforge/internal/e2etest"
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/logging"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const livenessMessage = "Backend is up and running!"

func TestLiveness(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	resp, err := client.Get(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get liveness")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	var body struct {
		Message string `json:"message"`
	}
	if err = e2etest.DecodeJSON(resp, &body); err != nil {
		return errors.Wrap(err, "decode liveness")
	}
	if body.Message != livenessMessage {
		return errors.New("unexpected liveness message", slog.String("message", body.Message))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   = e2etest.NewClient(url)
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err := TestLiveness(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing liveness", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
