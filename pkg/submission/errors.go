package submission

import (
	"errors"
	"fmt"
	"strings"
)

// Rendered failure messages.
const (
	MessageUnsuccessfulResponse = "Failed to submit form"
	MessageFallback             = "An error occurred. Please try again."
)

var (
	// ErrUnknownField is returned for field names outside the four recognized keys.
	ErrUnknownField = errors.New("submission: unknown field")
	// ErrSubmitDisabled is returned when a submission is already in flight.
	ErrSubmitDisabled = errors.New("submission: submit disabled while loading")
	// ErrIncompleteForm is returned when a required field is still empty.
	ErrIncompleteForm = errors.New("submission: all fields are required")
	// ErrTransportRequired is returned by New when no transport is supplied.
	ErrTransportRequired = errors.New("submission: transport is required")
	// ErrUnsuccessfulResponse matches every ResponseError.
	ErrUnsuccessfulResponse = errors.New(MessageUnsuccessfulResponse)
	// ErrNoResponse is reported when a transport returns neither a status nor
	// an error. It renders as the fallback message.
	ErrNoResponse = errors.New("submission: transport returned no response")
)

func unknownField(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// TransportError reports that the request could not be completed. Its message
// is the underlying failure's message, unchanged.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ResponseError reports a completed request with a non-success status code. The
// code is kept for logging only; the message never varies.
type ResponseError struct {
	StatusCode int
}

func (e *ResponseError) Error() string {
	return MessageUnsuccessfulResponse
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrUnsuccessfulResponse
}

// PanicError wraps a value recovered from a panicking transport.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("submission: transport panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// FailureMessage maps a failed attempt to the message stored in ErrorMessage.
func FailureMessage(err error) string {
	if err == nil {
		return MessageFallback
	}
	if errors.Is(err, ErrUnsuccessfulResponse) {
		return MessageUnsuccessfulResponse
	}
	if errors.Is(err, ErrNoResponse) {
		return MessageFallback
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		cause, ok := panicErr.Value.(error)
		if !ok || cause == nil {
			return MessageFallback
		}
		err = cause
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return MessageFallback
}

// IsSuccessStatus reports whether code falls in the 2xx success range.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code <= 299
}
