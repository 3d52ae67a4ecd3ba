package isin

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for directory fetches.
type ErrorCategory string

const (
	// ErrorTimeout indicates the directory took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorNotFound indicates the issuer is unknown to the directory.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorDirectoryOutage indicates the directory is unavailable.
	ErrorDirectoryOutage ErrorCategory = "directory_outage"

	// ErrorBadData indicates the directory returned a malformed payload.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorInternal indicates an unexpected internal failure.
	ErrorInternal ErrorCategory = "internal"
)

// FetchError is the single domain failure kind: a directory fetch that did
// not succeed. It is collected per unit of work and never propagated past
// the enrichment run boundary.
type FetchError struct {
	IssuerID   int64
	Category   ErrorCategory
	StatusCode int
	Message    string
	Underlying error
}

func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("fetch isins for issuer %d [%s]: %s: %v", e.IssuerID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("fetch isins for issuer %d [%s]: %s", e.IssuerID, e.Category, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// Retryable reports whether a rerun could plausibly succeed without any
// directory-side change.
func (e *FetchError) Retryable() bool {
	return e.Category == ErrorTimeout || e.Category == ErrorDirectoryOutage
}

// NewFetchError creates a normalized fetch failure.
func NewFetchError(category ErrorCategory, issuerID int64, message string, underlying error) *FetchError {
	return &FetchError{
		IssuerID:   issuerID,
		Category:   category,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the failure category from an error chain.
func CategoryOf(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ErrorInternal
}
