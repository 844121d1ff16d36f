package main

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"Request timed out."}`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
// The request context is cancelled at the deadline which aborts pending completions.
func timeoutHandler(h http.Handler, writeTimeout time.Duration) http.Handler {
	// We want the timeout to be a little shorter than the server's write timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := writeTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	timeout := http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handlers overwrite this on success.
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		timeout.ServeHTTP(w, r)
	})
}
