package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrorKind classifies model call failures.
type ErrorKind string

const (
	ErrorKindAuth        ErrorKind = "auth"
	ErrorKindRateLimited ErrorKind = "rate_limited"
	ErrorKindUnavailable ErrorKind = "unavailable"
	ErrorKindTimeout     ErrorKind = "timeout"
	ErrorKindCanceled    ErrorKind = "canceled"
	ErrorKindGeneric     ErrorKind = "generic"
)

// ModelError is returned by providers when the external call fails.
type ModelError struct {
	Kind    ErrorKind
	Message string
	Timeout time.Duration // set for ErrorKindTimeout when known
	Err     error
}

func (e *ModelError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("model %s error: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("model %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("model %s error", e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown in the conversation in place of an answer.
func (e *ModelError) UserMessage() string {
	switch e.Kind {
	case ErrorKindAuth:
		return "Authentication with the model service failed. Check GOOGLE_API_KEY."
	case ErrorKindRateLimited:
		return "The model service is rate limiting requests. Please try again shortly."
	case ErrorKindUnavailable:
		return "The model service is unavailable right now. Please try again later."
	case ErrorKindTimeout:
		if e.Timeout > 0 {
			return fmt.Sprintf("The model did not respond within %s.", e.Timeout)
		}
		return "The model did not respond in time."
	case ErrorKindCanceled:
		return "The request was canceled."
	default:
		cause := e.Message
		if cause == "" && e.Err != nil {
			cause = e.Err.Error()
		}
		return fmt.Sprintf("Error occurred while creating response: %s", cause)
	}
}

// NewModelError builds a ModelError of the given kind wrapping err.
func NewModelError(kind ErrorKind, err error) *ModelError {
	me := &ModelError{Kind: kind, Err: err}
	if err != nil {
		me.Message = err.Error()
	}
	return me
}

// AsModelError converts any error returned by a provider into a ModelError.
// Errors that already are ModelErrors are returned as-is; context and network
// errors are classified; everything else is generic.
func AsModelError(err error) *ModelError {
	if err == nil {
		return nil
	}
	var me *ModelError
	if errors.As(err, &me) {
		return me
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewModelError(ErrorKindTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return NewModelError(ErrorKindCanceled, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewModelError(ErrorKindTimeout, err)
		}
		return NewModelError(ErrorKindUnavailable, err)
	}
	return NewModelError(ErrorKindGeneric, err)
}
