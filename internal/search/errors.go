// Package search provides the people-search service client and
// variant-scoped pagination cursor bookkeeping.
package search

import "fmt"

// APIError represents a failed search call. Transient errors (timeouts,
// 5xx, 429) may be retried within the same phase; permanent errors mark
// the variant failed.
type APIError struct {
	Status    int
	Message   string
	Transient bool
	Cause     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("search API error (status %d): %s", e.Status, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("search API error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("search API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// CursorError represents a pagination bookkeeping violation, such as
// requesting the next page of an exhausted variant.
type CursorError struct {
	Variant string
	Message string
}

func (e *CursorError) Error() string {
	return fmt.Sprintf("cursor error for variant %q: %s", e.Variant, e.Message)
}
