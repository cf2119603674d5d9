package models

import (
	"errors"
	"fmt"
)

// OrderResult is the exchange's answer to a successfully accepted order.
type OrderResult struct {
	OrderID   string
	FillPrice float64
}

// Balance is one currency balance on the exchange account.
type Balance struct {
	Currency  string
	Total     float64
	Available float64
}

// GatewayErrorKind splits exchange failures for retry policy: transient
// errors (network, timeout, 5xx) may be retried where a retry is safe,
// rejections never are.
type GatewayErrorKind int

const (
	GatewayTransient GatewayErrorKind = iota
	GatewayRejected
)

type GatewayError struct {
	Kind   GatewayErrorKind
	Op     string
	Symbol string
	Err    error
}

func (e *GatewayError) Error() string {
	kind := "transient"
	if e.Kind == GatewayRejected {
		kind = "rejected"
	}
	if e.Symbol != "" {
		return fmt.Sprintf("%s [%s] %s: %v", e.Op, e.Symbol, kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, kind, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func NewTransientError(op, symbol string, err error) *GatewayError {
	return &GatewayError{Kind: GatewayTransient, Op: op, Symbol: symbol, Err: err}
}

func NewRejectedError(op, symbol string, err error) *GatewayError {
	return &GatewayError{Kind: GatewayRejected, Op: op, Symbol: symbol, Err: err}
}

// IsTransient reports whether err is a gateway error safe to retry.
// Anything that is not explicitly a gateway error is treated as transient:
// an unclassified failure must not be mistaken for an exchange rejection.
func IsTransient(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind == GatewayTransient
	}
	return true
}

// IsRejected reports whether err is an explicit exchange rejection.
func IsRejected(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind == GatewayRejected
	}
	return false
}
