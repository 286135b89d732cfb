package gateway

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"fieldbook/internal/domain"
)

// StripeGateway implements PaymentGateway on the Stripe API. One
// instance is constructed in main and shared by all requests.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency, destinationAccount string, metadata map[string]string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	if destinationAccount != "" {
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(destinationAccount),
		}
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, mapStripeError(err)
	}
	return Intent{IntentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (ConfirmResult, error) {
	params := &stripe.PaymentIntentConfirmParams{
		Params:        stripe.Params{Context: ctx},
		PaymentMethod: stripe.String(paymentMethodID),
	}

	pi, err := g.api.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		// A processor decline comes back as an error, not a status.
		var se *stripe.Error
		if errors.As(err, &se) && se.Type == stripe.ErrorTypeCard {
			return ConfirmResult{Status: StatusFailed, Raw: string(se.Code)}, nil
		}
		return ConfirmResult{}, mapStripeError(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return ConfirmResult{Status: StatusSucceeded, Raw: string(pi.Status)}, nil
	case stripe.PaymentIntentStatusRequiresAction:
		return ConfirmResult{Status: StatusRequiresAction, Raw: string(pi.Status)}, nil
	default:
		return ConfirmResult{Status: StatusFailed, Raw: string(pi.Status)}, nil
	}
}

func (g *StripeGateway) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Params: stripe.Params{Context: ctx},
		Type:   stripe.String(string(stripe.AccountTypeExpress)),
		Email:  stripe.String(email),
	}
	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return "", mapStripeError(err)
	}
	return acct.ID, nil
}

func (g *StripeGateway) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Params:     stripe.Params{Context: ctx},
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", mapStripeError(err)
	}
	return link.URL, nil
}

func (g *StripeGateway) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.LoginLinkParams{
		Params:  stripe.Params{Context: ctx},
		Account: stripe.String(accountID),
	}
	link, err := g.api.LoginLinks.New(params)
	if err != nil {
		return "", mapStripeError(err)
	}
	return link.URL, nil
}

// mapStripeError folds every processor failure into a single
// domain.GatewayError. Network failures and processor 5xx are
// retryable; declines and invalid requests are not.
func mapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		// Transport-level failure, nothing reached the processor.
		return domain.GatewayError{Retryable: true, Msg: "payment gateway unreachable", Err: err}
	}

	switch se.Type {
	case stripe.ErrorTypeCard:
		return domain.GatewayError{Retryable: false, Msg: "payment declined", Err: err}
	case stripe.ErrorTypeInvalidRequest:
		return domain.GatewayError{Retryable: false, Msg: se.Msg, Err: err}
	default:
		// Covers auth failures too: anything under 500 is the caller's
		// problem, not a transient processor fault.
		return domain.GatewayError{Retryable: se.HTTPStatusCode >= 500, Msg: "payment gateway error", Err: err}
	}
}
