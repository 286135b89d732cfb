package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

var fieldCols = []string{
	"id", "field_name", "description", "field_type", "price_per_hour",
	"address", "image_url", "owner_id", "is_active",
}

func TestCreateBookingSnapshotsPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM fields WHERE id").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(fieldCols).
			AddRow(int64(3), "North Pitch", "", "futsal", 20.0, "", "", int64(7), true))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(12, 1))

	svc := BookingService{DB: db}
	got, err := svc.CreateBooking(9, CreateBookingInput{
		FieldID: 3, Date: "2025-06-01",
		StartTime: "20:00", EndTime: "22:00", Duration: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalPrice != 40.0 {
		t.Fatalf("total should be hourly price times duration, got %v", got.TotalPrice)
	}
	if got.OwnerID != 7 {
		t.Fatalf("owner should come from the field, got %d", got.OwnerID)
	}
	if got.PaymentStatus != models.BookingPaymentPending {
		t.Fatalf("new booking should be pending, got %q", got.PaymentStatus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc := BookingService{}

	cases := []struct {
		name string
		in   CreateBookingInput
	}{
		{"missing field", CreateBookingInput{Date: "2025-06-01", StartTime: "20:00", EndTime: "22:00", Duration: 2}},
		{"bad date", CreateBookingInput{FieldID: 3, Date: "01-06-2025", StartTime: "20:00", EndTime: "22:00", Duration: 2}},
		{"bad clock", CreateBookingInput{FieldID: 3, Date: "2025-06-01", StartTime: "8pm", EndTime: "22:00", Duration: 2}},
		{"end before start", CreateBookingInput{FieldID: 3, Date: "2025-06-01", StartTime: "22:00", EndTime: "20:00", Duration: 2}},
		{"zero duration", CreateBookingInput{FieldID: 3, Date: "2025-06-01", StartTime: "20:00", EndTime: "22:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(9, tc.in)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateBookingRejectsBadClock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(int64(5), int64(3), int64(9), int64(7), "2025-06-01", "20:00", "22:00", 2, 40.0, "pending"))

	svc := BookingService{DB: db}
	start := "99:99"
	_, err = svc.Update(5, 9, models.BookingUpdate{StartTime: &start})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// No UPDATE reaches the ledger for a malformed clock.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingRejectsInvertedRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(int64(5), int64(3), int64(9), int64(7), "2025-06-01", "20:00", "22:00", 2, 40.0, "pending"))

	svc := BookingService{DB: db}
	end := "19:00"
	_, err = svc.Update(5, 9, models.BookingUpdate{EndTime: &end})
	if !domain.IsValidation(err) {
		t.Fatalf("patched end before the existing start should fail, got %v", err)
	}
}

func TestUpdateBookingConcealsForeignBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(int64(5), int64(3), int64(9), int64(7), "2025-06-01", "20:00", "22:00", 2, 40.0, "pending"))

	svc := BookingService{DB: db}
	start := "19:00"
	_, err = svc.Update(5, 42, models.BookingUpdate{StartTime: &start})
	if !domain.IsNotFound(err) {
		t.Fatalf("a stranger should see not-found, got %v", err)
	}
}
