// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package events

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes client failures for programmatic handling.
type ErrorKind int

const (
	// KindAuthRequired indicates an operation needing a session ran with no
	// token, or the backend rejected the token (401). The UI should route
	// the user to login rather than show a generic failure.
	KindAuthRequired ErrorKind = iota

	// KindRequestFailed indicates a non-2xx response or a transport error.
	KindRequestFailed

	// KindDecodeFailed indicates a malformed or contract-violating response
	// body.
	KindDecodeFailed
)

// String returns the kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthRequired:
		return "AUTH_REQUIRED"
	case KindRequestFailed:
		return "REQUEST_FAILED"
	case KindDecodeFailed:
		return "DECODE_FAILED"
	default:
		return "UNKNOWN"
	}
}

// OpError is the error type returned by every Client method.
//
// Message prefers the server-provided message when the error body parsed;
// otherwise it is the fixed per-operation fallback. No Client method
// retries: a single failed attempt surfaces to the caller.
type OpError struct {
	// Op names the failed operation, e.g. "listEvents".
	Op string

	// Kind categorizes the failure.
	Kind ErrorKind

	// StatusCode is the HTTP status, or 0 for transport/decode failures.
	StatusCode int

	// Message is human-readable, suitable for a toast or terminal line.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause.
func (e *OpError) Unwrap() error { return e.Err }

// IsAuthRequired reports whether err is an OpError with KindAuthRequired.
func IsAuthRequired(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Kind == KindAuthRequired
}

// UserMessage extracts the display message from err, falling back to
// err.Error() for non-OpError values.
func UserMessage(err error) string {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Message
	}
	return err.Error()
}
