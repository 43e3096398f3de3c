package orderview

import (
	"errors"

	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/prodsheet/backend/internal/domain/shared"
)

// LoadFailedNotice is shown to the user whenever an order cannot be loaded.
const LoadFailedNotice = "Failed to load preview"

// ViewState is the state a page is left in after loading.
type ViewState string

const (
	StateReady    ViewState = "ready"
	StateNotFound ViewState = "not_found"
)

// LoadError reports a failed order load together with what the caller
// should show and where it should send the user.
type LoadError struct {
	OrderID    order.ID
	Notice     string
	RedirectTo string
	Cause      error
}

func (e *LoadError) Error() string {
	msg := "load order"
	if e.OrderID != "" {
		msg += " " + e.OrderID.String()
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// State is always StateNotFound; a failed load leaves nothing to show.
func (e *LoadError) State() ViewState {
	return StateNotFound
}

// Code classifies the cause with the shared domain error codes.
func (e *LoadError) Code() string {
	var de *shared.DomainError
	if errors.As(e.Cause, &de) {
		return de.Code
	}
	return shared.ErrUpstreamUnavailable.Code
}

// AsLoadError extracts a LoadError from err.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
