package handlers

import (
	"net/http"

	"alphaDash/internal/models"
	"alphaDash/internal/services"
)

type EarningsHandler struct {
	Service *services.EarningsService
}

func (h *EarningsHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.Earnings(r.Context(), currentSession(r))
	if err != nil {
		failure(w, err, "Failed to load earnings")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *EarningsHandler) UpdateBankDetails(w http.ResponseWriter, r *http.Request) {
	var req models.BankDetails
	if err := decodeJSON(w, r, &req); err != nil {
		failure(w, err, "Failed to update bank details")
		return
	}
	details, err := h.Service.UpdateBankDetails(r.Context(), currentSession(r), req)
	if err != nil {
		failure(w, err, "Failed to update bank details")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Bank details updated successfully!",
		"bankDetails": details,
	})
}
