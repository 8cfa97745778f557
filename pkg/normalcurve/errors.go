package normalcurve

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain marks inputs or results outside the trading function's domain.
	ErrDomain = errors.New("outside curve domain")
	// ErrInvalidAmount is returned for negative or non-finite trade sizes.
	ErrInvalidAmount = errors.New("invalid trade amount")
)

// DomainError names the value that left the domain.
type DomainError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s = %g: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrDomain) match any DomainError.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

func domainErr(field string, value float64, reason string) error {
	return &DomainError{Field: field, Value: value, Reason: reason}
}
