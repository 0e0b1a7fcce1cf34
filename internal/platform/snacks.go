package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"alphaDash/internal/models"
)

// Snacks returns the full, unfiltered LazyPeeps catalog.
func (c *Client) Snacks(ctx context.Context, token string) ([]models.Snack, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/lazypeeps/snacks", nil, token, nil, &raw); err != nil {
		return nil, err
	}
	list := []models.Snack{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := unwrap(raw, &list); err != nil {
		return nil, fmt.Errorf("decode snacks: %w", err)
	}
	if list == nil {
		list = []models.Snack{}
	}
	return list, nil
}

func (c *Client) Vendors(ctx context.Context, token string, openOnly bool) ([]models.Vendor, error) {
	var query url.Values
	if openOnly {
		query = url.Values{"isOpen": {"true"}}
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/vendors", query, token, nil, &raw); err != nil {
		return nil, err
	}
	list := []models.Vendor{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := unwrap(raw, &list); err != nil {
		return nil, fmt.Errorf("decode vendors: %w", err)
	}
	if list == nil {
		list = []models.Vendor{}
	}
	return list, nil
}

// PlaceSnackOrder submits one order. It is sent exactly once: no retry and no
// idempotency key.
func (c *Client) PlaceSnackOrder(ctx context.Context, token string, order models.SnackOrderRequest) (models.SnackOrder, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/lazypeeps/snack-orders", nil, token, order, &raw); err != nil {
		return models.SnackOrder{}, err
	}
	placed := models.SnackOrder{TotalAmount: order.TotalAmount, VendorID: order.VendorID}
	if len(raw) == 0 {
		return placed, nil
	}
	var body models.SnackOrder
	if err := unwrap(raw, &body); err == nil {
		placed.ID = body.ID
		placed.Status = body.Status
	}
	return placed, nil
}
