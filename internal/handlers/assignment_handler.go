package handlers

import (
	"net/http"

	"alphaDash/internal/services"
)

type AssignmentHandler struct {
	Service *services.AssignmentService
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.List(r.Context(), currentSession(r), r.URL.Query().Get("status"))
	if err != nil {
		failure(w, err, "Failed to load assignments")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *AssignmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Start(r.Context(), currentSession(r), r.URL.Query().Get(":id"))
	if err != nil {
		failure(w, err, "Failed to start work")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AssignmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Complete(r.Context(), currentSession(r), r.URL.Query().Get(":id"))
	if err != nil {
		failure(w, err, "Failed to complete assignment")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
