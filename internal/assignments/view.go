package assignments

import (
	"strings"
	"time"

	"alphaDash/internal/models"
)

// View is the browser-facing shape of an assignment.
type View struct {
	ID            string            `json:"_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Type          string            `json:"type,omitempty"`
	Status        string            `json:"status"`
	Price         float64           `json:"price"`
	Deadline      *time.Time        `json:"deadline,omitempty"`
	Attachments   []string          `json:"attachments,omitempty"`
	RequesterName string            `json:"requesterName,omitempty"`
	Requester     *models.Requester `json:"requester,omitempty"`
	Actions       []string          `json:"actions"`
}

// NewView hides the requester until the assignment is completed.
func NewView(a models.Assignment) View {
	v := View{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Type:        a.Type,
		Status:      a.Status,
		Price:       Price(a),
		Attachments: a.Attachments,
		Actions:     Actions(a.Status),
	}
	if d := a.Deadline.OrZero(); !d.IsZero() {
		v.Deadline = &d
	}
	if a.Status == models.AssignmentCompleted {
		v.RequesterName = RequesterName(a.Requester)
		v.Requester = a.Requester
	}
	return v
}

func NewViews(list []models.Assignment) []View {
	out := make([]View, 0, len(list))
	for _, a := range list {
		out = append(out, NewView(a))
	}
	return out
}

// Price is the agreed price, else the budget floor, else 0.
func Price(a models.Assignment) float64 {
	if a.AgreedPrice != 0 {
		return a.AgreedPrice
	}
	if a.Budget != nil {
		return a.Budget.Min
	}
	return 0
}

func RequesterName(r *models.Requester) string {
	if r == nil {
		return "Unknown"
	}
	if r.DisplayName != "" {
		return r.DisplayName
	}
	if r.FirstName != "" {
		return strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	return "Unknown"
}
