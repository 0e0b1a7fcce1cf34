package models

const (
	AssignmentAssigned   = "assigned"
	AssignmentInProgress = "in_progress"
	AssignmentCompleted  = "completed"
)

type Assignment struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type,omitempty"`
	Status      string     `json:"status"`
	AgreedPrice float64    `json:"agreedPrice,omitempty"`
	Budget      *Budget    `json:"budget,omitempty"`
	Deadline    *Timestamp `json:"deadline,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
	Requester   *Requester `json:"requester,omitempty"`
}

type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Requester struct {
	DisplayName string `json:"displayName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
}
