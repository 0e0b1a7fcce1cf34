package models

type Payment struct {
	ID        string     `json:"_id"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	Amount    float64    `json:"amount"`
	NetAmount float64    `json:"netAmount"`
	Status    string     `json:"status"`
}

// EarningsReport is what the earnings page renders: the summary block plus
// the payment history table.
type EarningsReport struct {
	Summary              Earnings  `json:"summary"`
	CompletedAssignments int       `json:"completedAssignments"`
	Rating               float64   `json:"rating"`
	RecentPayments       []Payment `json:"recentPayments"`
}
