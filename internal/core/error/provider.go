package errx

import (
	"errors"
	"fmt"
)

// Kind classifies an external provider failure. The scheduler's retry policy
// keys off the kind, never off the error text.
type Kind string

const (
	KindRateLimit   Kind = "RATE_LIMIT"
	KindInvalidDate Kind = "INVALID_DATE"
	KindOther       Kind = "OTHER"
)

// ProviderError is returned by provider clients for failed external calls.
type ProviderError struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Kind, e.Detail, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProvider creates a kind-discriminated provider error.
func NewProvider(kind Kind, detail string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the provider error kind from an error chain. Non-provider
// errors classify as KindOther.
func KindOf(err error) Kind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindOther
}

// RateLimited reports whether the error chain carries a rate-limit kind.
func RateLimited(err error) bool {
	return KindOf(err) == KindRateLimit
}
