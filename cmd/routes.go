package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest)
	jsonMiddleware := alice.New(secureHeaders, makeResponseJSON)
	authMiddleware := jsonMiddleware.Append(app.session.Require)
	optionalMiddleware := jsonMiddleware.Append(app.session.Optional)
	socketMiddleware := alice.New(secureHeaders, app.session.RequireSocket)
	otpMiddleware := jsonMiddleware.Append(app.otpLimiter.Limit)

	mux := pat.New()

	mux.Get("/healthz", jsonMiddleware.ThenFunc(app.healthz))

	// Auth
	mux.Post("/auth/otp/send", otpMiddleware.ThenFunc(app.authHandler.SendOTP))
	mux.Post("/auth/otp/verify", otpMiddleware.ThenFunc(app.authHandler.VerifyOTP))
	mux.Post("/auth/logout", authMiddleware.ThenFunc(app.authHandler.Logout))
	mux.Get("/auth/me", optionalMiddleware.ThenFunc(app.authHandler.Me))

	// Profile
	mux.Get("/dashboard", authMiddleware.ThenFunc(app.profileHandler.Dashboard))
	mux.Get("/profile", authMiddleware.ThenFunc(app.profileHandler.GetProfile))
	mux.Put("/profile", authMiddleware.ThenFunc(app.profileHandler.UpdateProfile))
	mux.Put("/profile/avatar", authMiddleware.ThenFunc(app.profileHandler.UploadAvatar))

	// Assignments
	mux.Get("/assignments", authMiddleware.ThenFunc(app.assignmentHandler.List))
	mux.Post("/assignments/:id/start", authMiddleware.ThenFunc(app.assignmentHandler.Start))
	mux.Post("/assignments/:id/complete", authMiddleware.ThenFunc(app.assignmentHandler.Complete))

	// Earnings
	mux.Get("/earnings", authMiddleware.ThenFunc(app.earningsHandler.Earnings))
	mux.Put("/bank-details", authMiddleware.ThenFunc(app.earningsHandler.UpdateBankDetails))

	// LazyPeeps
	mux.Get("/snacks", authMiddleware.ThenFunc(app.snackHandler.Catalog))
	mux.Get("/cart", authMiddleware.ThenFunc(app.snackHandler.Cart))
	mux.Post("/cart/items", authMiddleware.ThenFunc(app.snackHandler.AddItem))
	mux.Put("/cart/items/:id", authMiddleware.ThenFunc(app.snackHandler.UpdateItem))
	mux.Del("/cart/items/:id", authMiddleware.ThenFunc(app.snackHandler.RemoveItem))
	mux.Post("/cart/checkout", authMiddleware.ThenFunc(app.snackHandler.Checkout))

	// Live events
	mux.Get("/ws", socketMiddleware.ThenFunc(app.WebSocketHandler))

	return standardMiddleware.Then(mux)
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
