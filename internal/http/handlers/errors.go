package handlers

import (
	"net/http"

	"fieldbook/internal/domain"
	"fieldbook/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Internal
// and anomaly details never leak raw; the structured code is stable
// for clients.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	// Anomaly first: it wraps the failed booking-write cause, and the
	// wrapped error must not pick the branch.
	case domain.IsReconciliationAnomaly(err):
		// Settled but not propagated: the sweep repairs it; the caller
		// must not treat the payment as failed.
		respondError(c, http.StatusInternalServerError, "reconciliation_anomaly", "payment recorded, booking update pending repair")
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsPreconditionFailed(err):
		respondError(c, http.StatusPreconditionFailed, "precondition_failed", err.Error())
	case domain.IsGateway(err):
		if domain.IsRetryableGateway(err) {
			respondError(c, http.StatusBadGateway, "gateway_error", err.Error())
		} else {
			respondError(c, http.StatusBadRequest, "gateway_error", err.Error())
		}
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
