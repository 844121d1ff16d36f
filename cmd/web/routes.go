package main

import (
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	// The API routes are reachable over plain HTTP in production too, a redirect would turn the POST into a GET.
	redirect := alice.New()
	if app.production {
		redirect = redirect.Append(redirectToHTTPS)
	}

	mux.HandleFunc("POST /generate", app.generate)
	mux.HandleFunc("POST /suggest", app.suggest)
	mux.Handle("GET /{$}", redirect.ThenFunc(app.home))
	if app.metrics != nil {
		mux.Handle("GET /metrics", redirect.Then(app.metrics.Handler()))
	}
	mux.Handle("/", redirect.ThenFunc(app.notFound))

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders, cors.Default().Handler)

	return common.Then(timeoutHandler(mux, writeTimeout))
}
