package handlers

import (
	"net/http"
	"strconv"

	"alphaDash/internal/catalog"
	"alphaDash/internal/models"
	"alphaDash/internal/services"
)

type SnackHandler struct {
	Service *services.SnackService
}

func (h *SnackHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		failure(w, err, "Failed to load snacks")
		return
	}
	page, err := h.Service.Catalog(r.Context(), currentSession(r), f)
	if err != nil {
		failure(w, err, "Failed to load snacks")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *SnackHandler) Cart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Cart(currentSession(r))
	if err != nil {
		failure(w, err, "Failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SnackHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SnackID string `json:"snackId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		failure(w, err, "Failed to add to cart")
		return
	}
	summary, err := h.Service.AddToCart(r.Context(), currentSession(r), req.SnackID)
	if err != nil {
		failure(w, err, "Failed to add to cart")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SnackHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		failure(w, err, "Failed to update cart")
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	summary, err := h.Service.SetQuantity(currentSession(r), r.URL.Query().Get(":id"), *req.Quantity)
	if err != nil {
		failure(w, err, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SnackHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.RemoveFromCart(currentSession(r), r.URL.Query().Get(":id"))
	if err != nil {
		failure(w, err, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SnackHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.Service.Checkout(r.Context(), currentSession(r))
	if err != nil {
		failure(w, err, "Failed to place order")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully!",
		"order":   order,
	})
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		VendorID: q.Get("vendor"),
		Sort:     q.Get("sort"),
	}
	var err error
	if f.MinPrice, err = parsePrice(q.Get("minPrice"), "minPrice"); err != nil {
		return catalog.Filter{}, err
	}
	if f.MaxPrice, err = parsePrice(q.Get("maxPrice"), "maxPrice"); err != nil {
		return catalog.Filter{}, err
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return catalog.Filter{}, models.NewValidationError("minPrice must not exceed maxPrice")
	}
	return f, nil
}

func parsePrice(raw, name string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, models.NewValidationError("invalid %s", name)
	}
	return v, nil
}
