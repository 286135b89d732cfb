package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/domain"
)

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondDomainError(c, err)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return rec.Code, body
}

func TestRespondDomainErrorAnomalyOutranksItsCause(t *testing.T) {
	// The anomaly wraps the failed booking write; a not-found cause
	// (booking deleted mid-confirmation) must not downgrade it to 404.
	err := domain.ReconciliationAnomalyError{
		TransactionID: "pi_abc",
		BookingID:     5,
		Err:           domain.NotFoundError{Resource: "booking"},
	}
	status, body := respond(t, err)
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if body["code"] != "reconciliation_anomaly" {
		t.Fatalf("code = %v, want reconciliation_anomaly", body["code"])
	}
}

func TestRespondDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.ValidationError{Field: "date"}, http.StatusBadRequest, "validation_error"},
		{"not found", domain.NotFoundError{Resource: "booking"}, http.StatusNotFound, "not_found"},
		{"conflict", domain.ConflictError{Resource: "booking"}, http.StatusConflict, "conflict"},
		{"precondition", domain.PreconditionFailedError{Msg: "no payout account"}, http.StatusPreconditionFailed, "precondition_failed"},
		{"retryable gateway", domain.GatewayError{Retryable: true, Msg: "unreachable"}, http.StatusBadGateway, "gateway_error"},
		{"declined gateway", domain.GatewayError{Retryable: false, Msg: "declined"}, http.StatusBadRequest, "gateway_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respond(t, tc.err)
			if status != tc.status || body["code"] != tc.code {
				t.Fatalf("got %d/%v, want %d/%s", status, body["code"], tc.status, tc.code)
			}
		})
	}
}
