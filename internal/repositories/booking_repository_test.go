package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

func TestCreateBookingWinsFreeSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(
			int64(3), int64(9), int64(7), "2025-06-01", "20:00", "22:00", 2, 40.0,
			int64(3), "2025-06-01", "22:00", "20:00",
		).
		WillReturnResult(sqlmock.NewResult(12, 1))

	repo := BookingRepository{DB: db}
	b := models.Booking{
		FieldID: 3, UserID: 9, OwnerID: 7,
		Date: "2025-06-01", StartTime: "20:00", EndTime: "22:00",
		Duration: 2, TotalPrice: 40.0,
	}
	if err := repo.Create(&b); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if b.ID != 12 {
		t.Fatalf("booking id not set, got %d", b.ID)
	}
	if b.PaymentStatus != models.BookingPaymentPending {
		t.Fatalf("new booking should be pending, got %q", b.PaymentStatus)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingOverlapConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Zero rows: the NOT EXISTS guard found an overlapping booking.
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepository{DB: db}
	b := models.Booking{
		FieldID: 3, UserID: 9, OwnerID: 7,
		Date: "2025-06-01", StartTime: "21:00", EndTime: "23:00",
		Duration: 2, TotalPrice: 40.0,
	}
	err = repo.Create(&b)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on overlapping slot, got %v", err)
	}
}

func TestUpdateBookingFrozenAfterPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).AddRow("success"))

	repo := BookingRepository{DB: db}
	start := "19:00"
	effective := models.Booking{ID: 5, FieldID: 3, Date: "2025-06-01", StartTime: "19:00", EndTime: "22:00"}
	err = repo.Update(5, models.BookingUpdate{StartTime: &start}, effective)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on paid booking, got %v", err)
	}
}

func TestUpdateBookingOntoHeldSlotConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// The guarded update touches no rows, the booking is still pending,
	// and the overlap probe finds a live booking on the target slot.
	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).AddRow("pending"))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(3), "2025-06-01", int64(5), "23:00", "21:00").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := BookingRepository{DB: db}
	start, end := "21:00", "23:00"
	effective := models.Booking{ID: 5, FieldID: 3, Date: "2025-06-01", StartTime: "21:00", EndTime: "23:00"}
	err = repo.Update(5, models.BookingUpdate{StartTime: &start, EndTime: &end}, effective)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on held slot, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBookingNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}))

	repo := BookingRepository{DB: db}
	err = repo.Delete(99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeletePaidBookingConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM bookings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT payment_status FROM bookings").
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).AddRow("success"))

	repo := BookingRepository{DB: db}
	err = repo.Delete(6)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict deleting paid booking, got %v", err)
	}
}
