package models

type Plan struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Benefits     string  `json:"benefits"`
	BillingCycle string  `json:"billing_cycle"` // monthly, yearly
	CreatedAt    string  `json:"created_at,omitempty"`
}
