package main

import (
	"encoding/json"
	"github.com/myrjola/ideaforge/internal/errors"
	"io"
	"log/slog"
	"net/http"
)

// maxBodyBytes caps request bodies. Queries and selected ideas are short texts.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "write response", errors.SlogError(err))
	}
}

// decodeJSON reads the request body into v. It answers with 400 and returns false when the body is not valid JSON.
// An empty body leaves v untouched.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		app.clientError(w, r, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

// serverError logs err and answers with 500. msg is shown to the client, the generic status text is used if empty.
func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error, msg ...string) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))

	text := http.StatusText(http.StatusInternalServerError)
	if len(msg) > 0 && msg[0] != "" {
		text = msg[0]
	}
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: text})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), slog.String("reason", msg))
	app.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}
