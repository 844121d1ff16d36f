package main

import (
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/myrjola/ideaforge/internal/models"
	"log/slog"
	"net/http"
)

type generateRequest struct {
	Query string `json:"query"`
}

// generate produces ideas for the query and responds with them ranked by descending score.
func (app *application) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}

	var (
		ranked []models.RankedIdea
		err    error
	)
	if ranked, err = app.pipeline.Generate(r.Context(), req.Query); err != nil {
		if errors.Is(err, ideas.ErrQueryRequired) {
			app.clientError(w, r, http.StatusBadRequest, ideas.ClientMessage(err))
			return
		}
		app.serverError(w, r, errors.Wrap(err, "generate", slog.String("query", req.Query)), ideas.ClientMessage(err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, ranked)
}
