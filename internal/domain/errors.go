package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// PreconditionFailedError signals the caller must complete a prior step
// first (e.g. a field owner who has not onboarded a payout account).
type PreconditionFailedError struct {
	Msg string
	Err error
}

func (e PreconditionFailedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "precondition failed"
}

func (e PreconditionFailedError) Unwrap() error { return e.Err }

// GatewayError wraps a payment-processor failure. Retryable marks
// transient failures (network, processor 5xx) the caller may retry.
type GatewayError struct {
	Retryable bool
	Msg       string
	Err       error
}

func (e GatewayError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "payment gateway error"
}

func (e GatewayError) Unwrap() error { return e.Err }

// ReconciliationAnomalyError marks a settlement that did not fully
// propagate: the payment record is terminal but the booking write
// failed. It must be surfaced and logged, never swallowed; the sweep
// repairs the booking out-of-band.
type ReconciliationAnomalyError struct {
	TransactionID string
	BookingID     int64
	Err           error
}

func (e ReconciliationAnomalyError) Error() string {
	return fmt.Sprintf("reconciliation anomaly: payment %s settled but booking %d not updated", e.TransactionID, e.BookingID)
}

func (e ReconciliationAnomalyError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsPreconditionFailed(err error) bool {
	var target PreconditionFailedError
	return errors.As(err, &target)
}

func IsGateway(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

func IsRetryableGateway(err error) bool {
	var target GatewayError
	if errors.As(err, &target) {
		return target.Retryable
	}
	return false
}

func IsReconciliationAnomaly(err error) bool {
	var target ReconciliationAnomalyError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
