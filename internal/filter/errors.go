// Package filter provides construction, validation, and serialization of
// nested boolean filter trees for the people-search service.
package filter

import "fmt"

// ValidationError represents a malformed filter tree. It is always raised
// before any search call is made.
type ValidationError struct {
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("filter validation error on %s: %s", e.Column, e.Message)
	}
	return fmt.Sprintf("filter validation error: %s", e.Message)
}

// ParseError represents a serialized filter fragment that could not be
// decoded back into a tree.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("filter parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("filter parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
