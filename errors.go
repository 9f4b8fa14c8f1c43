package compat

import (
	"errors"
	"fmt"
)

// RuntimeError represents an operational error that should lead to exit code 2
// Examples include configuration errors, corpus discovery failures, etc.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// CompatFailureError represents content-confirmed disagreement with the
// reference corpus (exit code 1)
type CompatFailureError struct {
	Message string
}

func (e *CompatFailureError) Error() string {
	return fmt.Sprintf("compatibility failure: %s", e.Message)
}

// NewCompatFailureError creates a new CompatFailureError
func NewCompatFailureError(message string) *CompatFailureError {
	return &CompatFailureError{Message: message}
}

// IsCompatFailureError checks if the error is or wraps a CompatFailureError
func IsCompatFailureError(err error) bool {
	var compatErr *CompatFailureError
	return err != nil && errors.As(err, &compatErr)
}
