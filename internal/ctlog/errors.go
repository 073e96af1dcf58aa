// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ctlog

import "fmt"

// RetrievalError indicates that a call to the external CT log source failed:
// a network fault, a non-success HTTP status, or an unparseable response
// body. It carries the upstream status/description and is never retried by
// the engine.
type RetrievalError struct {
	// StatusCode: Upstream HTTP status, 0 when the request never completed
	StatusCode int
	// Description: Human-readable description of the failure
	Description string
	// Err: Underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ctlog: retrieval failed (status %d): %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("ctlog: retrieval failed: %s", e.Description)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *RetrievalError) Unwrap() error { return e.Err }

// InvalidInputError indicates caller-supplied parameters outside the
// accepted domain (limit out of range, unrecognized match mode, missing
// certificate identifier). It is always raised before any network call.
type InvalidInputError struct {
	// Field: Name of the offending parameter
	Field string
	// Reason: Why the value was rejected
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("ctlog: invalid %s: %s", e.Field, e.Reason)
}
