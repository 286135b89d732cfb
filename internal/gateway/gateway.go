// Package gateway wraps the payment processor behind a narrow
// capability interface. It is the only package that speaks to the
// processor SDK, and the only place where major-unit amounts are
// converted to integer minor units.
package gateway

import (
	"context"
	"math"
)

// Intent is a processor-issued handle for an in-progress payment.
type Intent struct {
	IntentID     string
	ClientSecret string
}

// Confirmation outcomes, mirroring the processor's intent statuses.
const (
	StatusSucceeded      = "succeeded"
	StatusRequiresAction = "requires_action"
	StatusFailed         = "failed"
)

type ConfirmResult struct {
	Status string
	Raw    string // sanitized processor detail, safe to log
}

// PaymentGateway is the capability set the reconciliation workflow
// needs. Implementations are constructed once at startup and injected.
type PaymentGateway interface {
	// CreateIntent opens a payment intent. amount is in minor units
	// (cents). destinationAccount routes funds to a connected payout
	// account and may be empty for platform-side charges.
	CreateIntent(ctx context.Context, amount int64, currency, destinationAccount string, metadata map[string]string) (Intent, error)

	// ConfirmIntent confirms an intent with the payer's method.
	ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (ConfirmResult, error)

	// CreateConnectedAccount creates a payout account for a field owner.
	CreateConnectedAccount(ctx context.Context, email string) (string, error)

	// CreateOnboardingLink returns the hosted onboarding URL.
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)

	// CreateLoginLink returns the hosted dashboard URL for an account.
	CreateLoginLink(ctx context.Context, accountID string) (string, error)
}

// MinorUnits converts a major-unit amount (dollars) to integer minor
// units (cents). Rounding happens here and nowhere else; float math
// never crosses the gateway boundary.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
