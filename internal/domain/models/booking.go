package models

// Booking payment statuses. TotalPrice is snapshotted from the field's
// price at creation time and never recomputed.
const (
	BookingPaymentPending = "pending"
	BookingPaymentSuccess = "success"
	BookingPaymentFailed  = "failed"
)

type Booking struct {
	ID            int64   `json:"id"`
	FieldID       int64   `json:"field_id"`
	UserID        int64   `json:"user_id"`
	OwnerID       int64   `json:"owner_id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Duration      int     `json:"duration"` // hours
	TotalPrice    float64 `json:"total_price"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// BookingUpdate carries the mutable fields of a pending booking.
// Nil pointers leave the column untouched.
type BookingUpdate struct {
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Duration  *int    `json:"duration"`
}

func (u BookingUpdate) Empty() bool {
	return u.Date == nil && u.StartTime == nil && u.EndTime == nil && u.Duration == nil
}
