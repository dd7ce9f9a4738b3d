package workflow

import "errors"

var (
	// ErrInvalidEndpoint is returned for endpoints that are not absolute
	// http(s) URLs.
	ErrInvalidEndpoint = errors.New("workflow: invalid endpoint")
	// ErrEmptyBody is returned when Post is called without a payload.
	ErrEmptyBody = errors.New("workflow: request body is required")
)
