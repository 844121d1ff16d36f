package main

import (
	"github.com/myrjola/ideaforge/internal/errors"
	"github.com/myrjola/ideaforge/internal/ideas"
	"github.com/myrjola/ideaforge/internal/models"
	"log/slog"
	"net/http"
)

type suggestRequest struct {
	SelectedIdeas []models.SelectedIdea `json:"selectedIdeas"`
}

// suggest responds with an implementation breakdown for each of the two selected ideas.
func (app *application) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}

	var (
		details []models.SuggestionDetail
		err     error
	)
	if details, err = app.pipeline.Suggest(r.Context(), req.SelectedIdeas); err != nil {
		if errors.Is(err, ideas.ErrSelectionCount) {
			app.clientError(w, r, http.StatusBadRequest, ideas.ClientMessage(err))
			return
		}
		err = errors.Wrap(err, "suggest", slog.Int("selected", len(req.SelectedIdeas)))
		app.serverError(w, r, err, ideas.ClientMessage(err))
		return
	}

	app.writeJSON(w, r, http.StatusOK, details)
}
