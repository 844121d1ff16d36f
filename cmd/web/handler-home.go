package main

import (
	"net/http"
)

type statusMessage struct {
	Message string `json:"message"`
}

// home is the liveness endpoint. It doesn't touch the completion provider.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, statusMessage{Message: "Backend is up and running!"})
}
