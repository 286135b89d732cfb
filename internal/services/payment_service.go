package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/gateway"
	"fieldbook/internal/repositories"
	"fieldbook/internal/utils"
)

// PaymentService orchestrates the booking/payment reconciliation
// workflow: intent creation against the owner's payout account,
// out-of-band confirmation, and the two-ledger settlement.
type PaymentService struct {
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	UserRepo    repositories.UserRepository
	PlanRepo    repositories.PlanRepository
	Gateway     gateway.PaymentGateway
	ClientURL   string
	DB          *sql.DB
	RequestID   string
}

func (s PaymentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s PaymentService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.db()}
}

func (s PaymentService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s PaymentService) users() repositories.UserRepository {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepository{DB: s.db()}
}

func (s PaymentService) plans() repositories.PlanRepository {
	if s.PlanRepo.DB != nil {
		return s.PlanRepo
	}
	return repositories.PlanRepository{DB: s.db()}
}

// IntentResult is returned to the client so it can complete the
// payment out-of-band.
type IntentResult struct {
	TransactionID string  `json:"transaction_id"`
	ClientSecret  string  `json:"client_secret,omitempty"`
	Amount        float64 `json:"amount"`
}

// CreateBookingIntent opens a payment intent for a pending booking,
// routed to the field owner's payout account. The step is not atomic
// across the gateway and the ledger, so it re-reads any existing
// record first: retries return the intent already opened instead of
// charging a second one.
func (s PaymentService) CreateBookingIntent(ctx context.Context, userID, bookingID int64) (IntentResult, error) {
	if bookingID <= 0 {
		return IntentResult{}, domain.ValidationError{Field: "booking_id", Msg: "required"}
	}

	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return IntentResult{}, err
	}
	if booking.PaymentStatus != models.BookingPaymentPending {
		return IntentResult{}, domain.ConflictError{Resource: "booking", Msg: "already paid"}
	}

	// Idempotent retry path: at most one active intent per booking.
	existing, err := s.payments().FindByBookingID(bookingID)
	switch {
	case err == nil && existing.Status == models.PaymentPending:
		return IntentResult{TransactionID: existing.TransactionID, Amount: existing.Amount}, nil
	case err == nil && existing.Status == models.PaymentComplete:
		return IntentResult{}, domain.ConflictError{Resource: "payment", Msg: "booking already paid"}
	case err == nil && existing.Status == models.PaymentFailed:
		// A failed attempt does not block a retry against the same
		// booking; clear it before opening a fresh intent.
		if err := s.payments().DeleteFailedByBooking(bookingID); err != nil {
			return IntentResult{}, err
		}
	case err != nil && !domain.IsNotFound(err):
		return IntentResult{}, err
	}

	owner, err := s.users().GetByID(booking.OwnerID)
	if err != nil {
		return IntentResult{}, err
	}
	if !owner.HasPayoutAccount() {
		return IntentResult{}, domain.PreconditionFailedError{Msg: "field owner has not completed payout onboarding"}
	}

	intent, err := s.Gateway.CreateIntent(ctx,
		gateway.MinorUnits(booking.TotalPrice), "usd", owner.StripeAccountID,
		map[string]string{
			"booking_id": strconv.FormatInt(booking.ID, 10),
			"user_id":    strconv.FormatInt(userID, 10),
		})
	if err != nil {
		return IntentResult{}, err
	}

	rec := models.PaymentRecord{
		UserID:        userID,
		BookingID:     booking.ID,
		Amount:        booking.TotalPrice,
		TransactionID: intent.IntentID,
		Type:          models.PaymentTypeBooking,
	}
	if err := s.payments().Open(&rec); err != nil {
		// A racing writer opened first; its intent stands.
		return IntentResult{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "intent_created",
		fmt.Sprintf("booking_id=%d transaction_id=%s amount=%s", booking.ID, rec.TransactionID, utils.FormatMoney(rec.Amount)))
	return IntentResult{TransactionID: rec.TransactionID, ClientSecret: intent.ClientSecret, Amount: rec.Amount}, nil
}

// CreatePlanIntent opens a subscription payment for a plan. No payout
// routing; the platform keeps plan revenue.
func (s PaymentService) CreatePlanIntent(ctx context.Context, userID, planID int64) (IntentResult, error) {
	if planID <= 0 {
		return IntentResult{}, domain.ValidationError{Field: "plan_id", Msg: "required"}
	}
	plan, err := s.plans().GetByID(planID)
	if err != nil {
		return IntentResult{}, err
	}

	intent, err := s.Gateway.CreateIntent(ctx,
		gateway.MinorUnits(plan.Price), "usd", "",
		map[string]string{
			"plan_id": strconv.FormatInt(plan.ID, 10),
			"user_id": strconv.FormatInt(userID, 10),
		})
	if err != nil {
		return IntentResult{}, err
	}

	rec := models.PaymentRecord{
		UserID:        userID,
		PlanID:        plan.ID,
		Amount:        plan.Price,
		TransactionID: intent.IntentID,
		Type:          models.PaymentTypePlan,
	}
	if err := s.payments().Open(&rec); err != nil {
		return IntentResult{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "intent_created",
		fmt.Sprintf("plan_id=%d transaction_id=%s amount=%s", plan.ID, rec.TransactionID, utils.FormatMoney(rec.Amount)))
	return IntentResult{TransactionID: rec.TransactionID, ClientSecret: intent.ClientSecret, Amount: rec.Amount}, nil
}

// ConfirmPaymentInput is the confirmation request. Only the
// transaction id is known to the caller; the booking is resolved from
// the ledger.
type ConfirmPaymentInput struct {
	TransactionID   string `json:"transaction_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (in ConfirmPaymentInput) Validate() error {
	if in.TransactionID == "" {
		return domain.ValidationError{Field: "transaction_id", Msg: "required"}
	}
	if in.PaymentMethodID == "" {
		return domain.ValidationError{Field: "payment_method_id", Msg: "required"}
	}
	return nil
}

type ConfirmResult struct {
	TransactionID string `json:"transaction_id"`
	BookingID     int64  `json:"booking_id,omitempty"`
}

// ConfirmPayment settles a pending payment. The transaction id is
// never trusted as a bare claim: the gateway confirms the intent
// before any ledger write. On success the payment record settles
// first, then the booking, as one logical unit; a booking write
// failure after settlement is surfaced as a reconciliation anomaly.
func (s PaymentService) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) (ConfirmResult, error) {
	if err := in.Validate(); err != nil {
		return ConfirmResult{}, err
	}

	rec, err := s.payments().FindByTransactionID(in.TransactionID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if rec.Terminal() {
		if rec.Status == models.PaymentComplete {
			// Idempotent replay of a finished confirmation.
			return ConfirmResult{TransactionID: rec.TransactionID, BookingID: rec.BookingID}, nil
		}
		return ConfirmResult{}, domain.ConflictError{Resource: "payment", Msg: "already settled as " + rec.Status}
	}

	outcome, err := s.Gateway.ConfirmIntent(ctx, rec.TransactionID, in.PaymentMethodID)
	if err != nil {
		// Nothing settled; the record stays pending and the caller can
		// retry once the gateway recovers.
		return ConfirmResult{}, err
	}

	if outcome.Status != gateway.StatusSucceeded {
		if err := s.settleIgnoringLostRace(rec.TransactionID, models.PaymentFailed); err != nil {
			return ConfirmResult{}, err
		}
		utils.LogEvent(s.RequestID, "payment", "declined",
			fmt.Sprintf("transaction_id=%s gateway_status=%s", rec.TransactionID, outcome.Status))
		// Booking stays pending so the user can retry against it.
		return ConfirmResult{}, domain.GatewayError{Retryable: false, Msg: "Payment failed"}
	}

	if err := s.payments().Settle(rec.TransactionID, models.PaymentComplete); err != nil {
		if domain.IsConflict(err) {
			// A concurrent confirmation won the settle; check what it
			// decided and report the same outcome.
			current, ferr := s.payments().FindByTransactionID(rec.TransactionID)
			if ferr == nil && current.Status == models.PaymentComplete {
				return ConfirmResult{TransactionID: rec.TransactionID, BookingID: rec.BookingID}, nil
			}
		}
		return ConfirmResult{}, err
	}

	if rec.BookingID != 0 {
		if err := s.bookings().MarkPaymentStatus(rec.BookingID, models.BookingPaymentSuccess); err != nil {
			anomaly := domain.ReconciliationAnomalyError{
				TransactionID: rec.TransactionID,
				BookingID:     rec.BookingID,
				Err:           err,
			}
			utils.LogEvent(s.RequestID, "payment", "anomaly", anomaly.Error())
			return ConfirmResult{}, anomaly
		}
	}

	utils.LogEvent(s.RequestID, "payment", "settled",
		fmt.Sprintf("transaction_id=%s booking_id=%d", rec.TransactionID, rec.BookingID))
	return ConfirmResult{TransactionID: rec.TransactionID, BookingID: rec.BookingID}, nil
}

// settleIgnoringLostRace applies a terminal status, treating "another
// writer already settled the same way" as done.
func (s PaymentService) settleIgnoringLostRace(txID, status string) error {
	err := s.payments().Settle(txID, status)
	if err == nil || !domain.IsConflict(err) {
		return err
	}
	current, ferr := s.payments().FindByTransactionID(txID)
	if ferr == nil && current.Status == status {
		return nil
	}
	return err
}

// OnboardOwner creates a payout account for a field owner and returns
// the hosted onboarding link. The account id is stored only after the
// gateway confirms creation, and exactly once.
func (s PaymentService) OnboardOwner(ctx context.Context, userID int64) (string, error) {
	user, err := s.users().GetByID(userID)
	if err != nil {
		return "", err
	}
	if user.Role != models.RoleFieldOwner {
		return "", domain.ValidationError{Field: "user", Msg: "only field owners can onboard"}
	}
	if user.HasPayoutAccount() {
		return "", domain.ConflictError{Resource: "user", Msg: "payout account already linked"}
	}

	accountID, err := s.Gateway.CreateConnectedAccount(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if err := s.users().SetStripeAccount(user.ID, accountID); err != nil {
		return "", err
	}

	url, err := s.Gateway.CreateOnboardingLink(ctx, accountID,
		s.ClientURL+"/connect/refresh",
		s.ClientURL+"/stripe-account-success")
	if err != nil {
		return "", err
	}

	utils.LogEvent(s.RequestID, "payment", "onboarding_started",
		fmt.Sprintf("user_id=%d account_id=%s", user.ID, accountID))
	return url, nil
}

// DashboardLink returns the processor dashboard login link for an
// onboarded owner.
func (s PaymentService) DashboardLink(ctx context.Context, userID int64) (string, error) {
	user, err := s.users().GetByID(userID)
	if err != nil {
		return "", err
	}
	if !user.HasPayoutAccount() {
		return "", domain.PreconditionFailedError{Msg: "user does not have a connected payout account"}
	}
	return s.Gateway.CreateLoginLink(ctx, user.StripeAccountID)
}

// SweepAnomalies repairs bookings left pending after their payment
// settled, the detectable inconsistent state of the two-step update.
// Run periodically from main.
func (s PaymentService) SweepAnomalies(ctx context.Context) (int, error) {
	anomalies, err := s.payments().ListAnomalies()
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, a := range anomalies {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}
		if err := s.bookings().MarkPaymentStatus(a.BookingID, models.BookingPaymentSuccess); err != nil {
			utils.LogEvent(s.RequestID, "payment", "anomaly",
				fmt.Sprintf("repair failed transaction_id=%s booking_id=%d err=%v", a.TransactionID, a.BookingID, err))
			continue
		}
		repaired++
		utils.LogEvent(s.RequestID, "payment", "anomaly_repaired",
			fmt.Sprintf("transaction_id=%s booking_id=%d", a.TransactionID, a.BookingID))
	}
	return repaired, nil
}
