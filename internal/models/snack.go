package models

type Snack struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	VendorID      string    `json:"vendorId"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Rating        float64   `json:"rating"`
	Images        []string  `json:"images,omitempty"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     *Timestamp `json:"createdAt,omitempty"`
}

type Vendor struct {
	ID           string `json:"_id"`
	BusinessName string `json:"businessName"`
	IsOpen       bool   `json:"isOpen"`
}

type SnackOrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type SnackOrderRequest struct {
	Items       []SnackOrderItem `json:"items"`
	TotalAmount float64          `json:"totalAmount"`
	VendorID    string           `json:"vendorId"`
}

type SnackOrder struct {
	ID          string  `json:"_id,omitempty"`
	Status      string  `json:"status,omitempty"`
	TotalAmount float64 `json:"totalAmount"`
	VendorID    string  `json:"vendorId"`
}
