// Package errors provides the structured error types used across forge.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrNotFound is returned when a project identifier is unknown to the
	// registry — never issued, or already deleted.
	ErrNotFound = errors.New("project not found")

	// ErrInvalidState is returned when an operation requires the project to
	// be in a state it is not in (e.g. download before completion).
	ErrInvalidState = errors.New("project not in required state")
)

// AdapterError wraps a failure from the generative-model adapter (network,
// quota, auth). Fatal to the stage that triggered it; never retried.
type AdapterError struct {
	Stage   string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("adapter error in %s stage: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("adapter error in %s stage: %s", e.Stage, e.Message)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError creates an adapter error for a stage.
func NewAdapterError(stage, message string, err error) *AdapterError {
	return &AdapterError{Stage: stage, Message: message, Err: err}
}

// MalformedResponseError indicates the normalizer could not extract a
// well-formed JSON document from the model output.
type MalformedResponseError struct {
	Reason  string
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("malformed model response: %s (near %q)", e.Reason, e.Snippet)
	}
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

// NewMalformedResponse creates a malformed-response error. The snippet is
// truncated so error messages stay readable in status payloads.
func NewMalformedResponse(reason, snippet string) *MalformedResponseError {
	const max = 80
	if len(snippet) > max {
		snippet = snippet[:max] + "..."
	}
	return &MalformedResponseError{Reason: reason, Snippet: snippet}
}

// StorageError wraps a failed durable artifact read or write.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}

// IsAdapter reports whether err is an AdapterError.
func IsAdapter(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
