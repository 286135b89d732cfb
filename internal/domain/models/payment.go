package models

// Payment record statuses. "complete" is the terminal success state;
// a record transitions out of pending exactly once.
const (
	PaymentPending  = "pending"
	PaymentComplete = "complete"
	PaymentFailed   = "failed"
)

// Payment types.
const (
	PaymentTypeBooking = "booking"
	PaymentTypePlan    = "plan"
)

type PaymentRecord struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	BookingID     int64   `json:"booking_id,omitempty"`
	PlanID        int64   `json:"plan_id,omitempty"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Type          string  `json:"type"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

func (p PaymentRecord) Terminal() bool {
	return p.Status == PaymentComplete || p.Status == PaymentFailed
}
