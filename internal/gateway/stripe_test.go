package gateway

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v82"

	"fieldbook/internal/domain"
)

func TestMapStripeError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"transport failure", errors.New("dial tcp: connection refused"), true},
		{"card decline", &stripe.Error{Type: stripe.ErrorTypeCard, HTTPStatusCode: 402}, false},
		{"invalid request", &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: 400}, false},
		{"bad api key", &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: 401}, false},
		{"processor outage", &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: 503}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapStripeError(tc.err)
			if !domain.IsGateway(got) {
				t.Fatalf("expected a gateway error, got %v", got)
			}
			if domain.IsRetryableGateway(got) != tc.retryable {
				t.Fatalf("retryable = %v, want %v (%v)", !tc.retryable, tc.retryable, got)
			}
		})
	}
}
