package main

import (
	"net/http"

	"alphaDash/internal/session"
)

// WebSocketHandler attaches the caller's socket to the event hub under its
// session id.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess == nil {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}
	app.hub.ServeWS(w, r, sess.ID())
}
