package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"alphaDash/internal/assignments"
	"alphaDash/internal/cart"
	"alphaDash/internal/models"
	"alphaDash/internal/platform"
	"alphaDash/internal/session"
)

const maxJSONBody = 1 << 20

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewValidationError("request body is empty")
		}
		return models.NewValidationError("invalid request body")
	}
	return nil
}

// currentSession returns the session attached by SessionMiddleware.
func currentSession(r *http.Request) *session.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}

// failure writes err with the status it maps to. Platform failures are
// reported with fallback; local errors carry their own message.
func failure(w http.ResponseWriter, err error, fallback string) {
	writeError(w, errorStatus(err), errorMessage(err, fallback))
}

func errorStatus(err error) int {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr), errors.Is(err, cart.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAssignmentNotFound), errors.Is(err, models.ErrSnackNotFound):
		return http.StatusNotFound
	case errors.Is(err, assignments.ErrInvalidTransition),
		errors.Is(err, assignments.ErrInFlight),
		errors.Is(err, cart.ErrVendorMismatch),
		errors.Is(err, cart.ErrUnavailable),
		errors.Is(err, cart.ErrCheckoutInFlight):
		return http.StatusConflict
	}
	return platformErrorStatus(err)
}

// platformErrorStatus passes platform 4xx through; anything else is a bad gateway.
func platformErrorStatus(err error) int {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
	}
	return http.StatusBadGateway
}

func errorMessage(err error, fallback string) string {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		return "Not authenticated"
	case errors.Is(err, models.ErrAssignmentNotFound):
		return "Assignment not found"
	case errors.Is(err, models.ErrSnackNotFound):
		return "Snack not found"
	case errors.Is(err, assignments.ErrInvalidTransition):
		return "Action not allowed for this assignment"
	case errors.Is(err, assignments.ErrInFlight):
		return "Action already in progress"
	case errors.Is(err, cart.ErrVendorMismatch):
		return "Your cart already has items from another vendor"
	case errors.Is(err, cart.ErrUnavailable):
		return "Snack is not available"
	case errors.Is(err, cart.ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, cart.ErrCheckoutInFlight):
		return "Checkout already in progress"
	}
	return fallback
}
