// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrPlanNotFound indicates the service has no plan for the requested date.
// The monitor answers with the nearest available day instead of failing, so
// this is a domain-level absence signal, not a defect.
// Use errors.Is() to check for it.
var ErrPlanNotFound = errors.New("no plan for the requested date")

// CommunicationError represents a failed transport call: the request never
// completed or the envelope could not be read. Never retried by the core.
type CommunicationError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *CommunicationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("untis communication error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("untis communication error (url=%s): %v", e.URL, e.Err)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// NewCommunicationError creates a new communication error.
func NewCommunicationError(url string, statusCode int, err error) *CommunicationError {
	return &CommunicationError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RemoteError represents an explicit error object returned inside the WebUntis
// response envelope. Message, Data and Code are surfaced verbatim.
type RemoteError struct {
	Message string
	Data    any
	Code    int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("webuntis reported an error (%d): %s", e.Code, e.Message)
}

// NewRemoteError creates a new remote error from envelope fields.
func NewRemoteError(message string, data any, code int) *RemoteError {
	return &RemoteError{
		Message: message,
		Data:    data,
		Code:    code,
	}
}

// ParsingError represents a payload the normalizer could not interpret.
// Always surfaced; the core does not guess at malformed rows or dates.
type ParsingError struct {
	Field string // which part of the payload failed (e.g. "date", "row")
	Value string // the offending raw value, for diagnostics
	Err   error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parsing %s %q failed", e.Field, e.Value)
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

// NewParsingError creates a new parsing error.
func NewParsingError(field, value string, err error) *ParsingError {
	return &ParsingError{
		Field: field,
		Value: value,
		Err:   err,
	}
}

// PlanNotFoundError reports that the monitor answered with a plan for a
// different date than requested (weekend, holiday, no-data slot).
// Matches ErrPlanNotFound via errors.Is.
type PlanNotFoundError struct {
	Requested time.Time
	Got       time.Time
}

func (e *PlanNotFoundError) Error() string {
	return fmt.Sprintf("no plan for %s (service answered with %s)",
		e.Requested.Format("2006-01-02"), e.Got.Format("2006-01-02"))
}

func (e *PlanNotFoundError) Unwrap() error {
	return ErrPlanNotFound
}

// NewPlanNotFoundError creates a new plan-not-found error.
func NewPlanNotFoundError(requested, got time.Time) *PlanNotFoundError {
	return &PlanNotFoundError{
		Requested: requested,
		Got:       got,
	}
}
