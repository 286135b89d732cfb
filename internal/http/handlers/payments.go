package handlers

import (
	"net/http"

	"fieldbook/internal/domain"
	"fieldbook/internal/http/middleware"
	"fieldbook/internal/services"

	"github.com/gin-gonic/gin"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Gateway:   paymentGateway,
		ClientURL: env.ClientURL,
		RequestID: middleware.GetRequestID(c),
	}
}

type createPaymentRequest struct {
	BookingID int64 `json:"booking_id"`
	PlanID    int64 `json:"plan_id"`
}

// POST /api/payment/create-payment
// Opens a payment intent for either a booking or a plan subscription.
func CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := paymentService(c)
	userID := middleware.GetUserID(c)

	var (
		result services.IntentResult
		err    error
	)
	switch {
	case req.BookingID > 0 && req.PlanID > 0:
		RespondDomainError(c, domain.ValidationError{Msg: "provide booking_id or plan_id, not both"})
		return
	case req.BookingID > 0:
		result, err = svc.CreateBookingIntent(c.Request.Context(), userID, req.BookingID)
	case req.PlanID > 0:
		result, err = svc.CreatePlanIntent(c.Request.Context(), userID, req.PlanID)
	default:
		RespondDomainError(c, domain.ValidationError{Msg: "booking_id or plan_id is required"})
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "payment intent created",
		"transaction_id": result.TransactionID,
		"client_secret":  result.ClientSecret,
		"amount":         result.Amount,
	})
}

// POST /api/payment/confirm-payment
func ConfirmPayment(c *gin.Context) {
	var req services.ConfirmPaymentInput
	if !BindJSONOrError(c, &req) {
		return
	}

	result, err := paymentService(c).ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "payment confirmed",
		"transaction_id": result.TransactionID,
		"booking_id":     result.BookingID,
	})
}

// POST /api/payment/connect
// Starts payout onboarding for the authenticated field owner.
func ConnectPayoutAccount(c *gin.Context) {
	url, err := paymentService(c).OnboardOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GET /api/payment/stripe-login-link/:userId
func GetDashboardLink(c *gin.Context) {
	userID, ok := PathID(c, "userId")
	if !ok {
		return
	}
	// Owners may only fetch their own dashboard link; admins any.
	if middleware.GetUserRole(c) != "admin" && userID != middleware.GetUserID(c) {
		RespondDomainError(c, domain.NotFoundError{Resource: "user"})
		return
	}

	url, err := paymentService(c).DashboardLink(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
