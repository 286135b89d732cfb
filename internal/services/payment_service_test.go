package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"fieldbook/internal/domain"
	"fieldbook/internal/gateway"
)

// stubGateway records calls so tests can assert what crossed the
// processor boundary without touching the network.
type stubGateway struct {
	intentCalls   int
	confirmCalls  int
	accountCalls  int
	lastAmount    int64
	lastCurrency  string
	lastDest      string
	lastMetadata  map[string]string
	intent        gateway.Intent
	intentErr     error
	confirmStatus string
	confirmErr    error
}

func (g *stubGateway) CreateIntent(_ context.Context, amount int64, currency, dest string, metadata map[string]string) (gateway.Intent, error) {
	g.intentCalls++
	g.lastAmount = amount
	g.lastCurrency = currency
	g.lastDest = dest
	g.lastMetadata = metadata
	if g.intentErr != nil {
		return gateway.Intent{}, g.intentErr
	}
	return g.intent, nil
}

func (g *stubGateway) ConfirmIntent(_ context.Context, _, _ string) (gateway.ConfirmResult, error) {
	g.confirmCalls++
	if g.confirmErr != nil {
		return gateway.ConfirmResult{}, g.confirmErr
	}
	return gateway.ConfirmResult{Status: g.confirmStatus}, nil
}

func (g *stubGateway) CreateConnectedAccount(_ context.Context, _ string) (string, error) {
	g.accountCalls++
	return "acct_stub", nil
}

func (g *stubGateway) CreateOnboardingLink(_ context.Context, _, _, _ string) (string, error) {
	return "https://onboarding.example/stub", nil
}

func (g *stubGateway) CreateLoginLink(_ context.Context, _ string) (string, error) {
	return "https://dashboard.example/stub", nil
}

var bookingCols = []string{
	"id", "field_id", "user_id", "owner_id", "booking_date",
	"start_time", "end_time", "duration_hours", "total_price", "payment_status",
}

var paymentCols = []string{
	"id", "user_id", "booking_id", "plan_id", "amount", "transaction_id", "status", "type",
}

var userCols = []string{
	"id", "name", "email", "role", "position", "favorite_club", "location",
	"avatar_url", "stripe_account_id",
}

func pendingBookingRow() *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).
		AddRow(int64(5), int64(3), int64(9), int64(7), "2025-06-01", "20:00", "22:00", 2, 40.0, "pending")
}

func ownerRow(accountID string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(int64(7), "Owner", "owner@example.com", "field_owner", "", "", "", "", accountID)
}

func TestCreateBookingIntentConvertsToMinorUnits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(pendingBookingRow())
	mock.ExpectQuery("FROM payments WHERE booking_id").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(paymentCols))
	mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(7)).
		WillReturnRows(ownerRow("acct_123"))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(31, 1))

	gw := &stubGateway{intent: gateway.Intent{IntentID: "pi_new", ClientSecret: "cs_new"}}
	svc := PaymentService{DB: db, Gateway: gw}

	got, err := svc.CreateBookingIntent(context.Background(), 9, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.lastAmount != 4000 {
		t.Fatalf("amount should cross the boundary in cents, got %d", gw.lastAmount)
	}
	if gw.lastCurrency != "usd" || gw.lastDest != "acct_123" {
		t.Fatalf("unexpected gateway call: currency=%q dest=%q", gw.lastCurrency, gw.lastDest)
	}
	if gw.lastMetadata["booking_id"] != "5" {
		t.Fatalf("booking id missing from metadata: %v", gw.lastMetadata)
	}
	if got.TransactionID != "pi_new" || got.Amount != 40.0 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingIntentReturnsExistingPendingIntent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(pendingBookingRow())
	mock.ExpectQuery("FROM payments WHERE booking_id").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_open", "pending", "booking"))

	gw := &stubGateway{}
	svc := PaymentService{DB: db, Gateway: gw}

	got, err := svc.CreateBookingIntent(context.Background(), 9, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TransactionID != "pi_open" {
		t.Fatalf("expected the already-open intent, got %+v", got)
	}
	if gw.intentCalls != 0 {
		t.Fatalf("retry must not open a second intent, gateway called %d times", gw.intentCalls)
	}
}

func TestCreateBookingIntentOwnerNotOnboarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(int64(5)).
		WillReturnRows(pendingBookingRow())
	mock.ExpectQuery("FROM payments WHERE booking_id").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(paymentCols))
	mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(7)).
		WillReturnRows(ownerRow(""))

	gw := &stubGateway{}
	svc := PaymentService{DB: db, Gateway: gw}

	_, err = svc.CreateBookingIntent(context.Background(), 9, 5)
	if !domain.IsPreconditionFailed(err) {
		t.Fatalf("expected precondition failure, got %v", err)
	}
	if gw.intentCalls != 0 {
		t.Fatalf("gateway must not be called before the onboarding check")
	}
}

func TestConfirmPaymentUnknownTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_missing").
		WillReturnRows(sqlmock.NewRows(paymentCols))

	gw := &stubGateway{}
	svc := PaymentService{DB: db, Gateway: gw}

	_, err = svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_missing", PaymentMethodID: "pm_card",
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("unknown transaction must not reach the gateway")
	}
}

func TestConfirmPaymentDeclined(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "pending", "booking"))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("failed", "pi_abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	gw := &stubGateway{confirmStatus: gateway.StatusFailed}
	svc := PaymentService{DB: db, Gateway: gw}

	_, err = svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_abc", PaymentMethodID: "pm_card",
	})
	if !domain.IsGateway(err) || domain.IsRetryableGateway(err) {
		t.Fatalf("expected non-retryable gateway error, got %v", err)
	}

	// No booking write expected: the booking stays pending for a retry.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmPaymentSettlesBothLedgers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "pending", "booking"))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("complete", "pi_abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs("success", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	gw := &stubGateway{confirmStatus: gateway.StatusSucceeded}
	svc := PaymentService{DB: db, Gateway: gw}

	got, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_abc", PaymentMethodID: "pm_card",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BookingID != 5 || got.TransactionID != "pi_abc" {
		t.Fatalf("unexpected result: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmPaymentReplaysCompletedSettlement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "complete", "booking"))

	gw := &stubGateway{}
	svc := PaymentService{DB: db, Gateway: gw}

	got, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_abc", PaymentMethodID: "pm_card",
	})
	if err != nil {
		t.Fatalf("replay should succeed, got %v", err)
	}
	if got.BookingID != 5 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("replay must not hit the gateway again")
	}
}

func TestConfirmPaymentFailedRecordConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "failed", "booking"))

	gw := &stubGateway{}
	svc := PaymentService{DB: db, Gateway: gw}

	_, err = svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_abc", PaymentMethodID: "pm_card",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on a failed record, got %v", err)
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("a settled record must not reach the gateway")
	}
}

func TestConfirmPaymentLosesSettleRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	pendingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "pending", "booking")
	}

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(pendingRow())
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM payments").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("complete"))
	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "complete", "booking"))

	gw := &stubGateway{confirmStatus: gateway.StatusSucceeded}
	svc := PaymentService{DB: db, Gateway: gw}

	got, err := svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_abc", PaymentMethodID: "pm_card",
	})
	if err != nil {
		t.Fatalf("losing the settle race should report the winner's outcome, got %v", err)
	}
	if got.BookingID != 5 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmPaymentBookingWriteAnomaly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE transaction_id").WithArgs("pi_abc").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(int64(31), int64(9), int64(5), int64(0), 40.0, "pi_abc", "pending", "booking"))
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WillReturnError(context.DeadlineExceeded)

	gw := &stubGateway{confirmStatus: gateway.StatusSucceeded}
	svc := PaymentService{DB: db, Gateway: gw}

	_, err = svc.ConfirmPayment(context.Background(), ConfirmPaymentInput{
		TransactionID: "pi_abc", PaymentMethodID: "pm_card",
	})
	if !domain.IsReconciliationAnomaly(err) {
		t.Fatalf("expected reconciliation anomaly, got %v", err)
	}
}

func TestOnboardOwnerAlreadyLinked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(7)).
		WillReturnRows(ownerRow("acct_123"))

	gw := &stubGateway{}
	svc := PaymentService{DB: db, Gateway: gw}

	_, err = svc.OnboardOwner(context.Background(), 7)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if gw.accountCalls != 0 {
		t.Fatalf("gateway must not be called when an account is already linked")
	}
}

func TestSweepAnomaliesRepairsPendingBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("JOIN bookings b ON").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "booking_id"}).
			AddRow("pi_abc", int64(5)).
			AddRow("pi_def", int64(8)))
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs("success", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs("success", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	svc := PaymentService{DB: db, Gateway: &stubGateway{}}

	repaired, err := svc.SweepAnomalies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repaired != 1 {
		t.Fatalf("expected one repaired booking, got %d", repaired)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
