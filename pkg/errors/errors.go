// Package errors provides structured error types for beer.
//
// Every failure that can reach a user carries a machine-readable [Code]. The
// resolution codes (unresolved dependency, malformed manifest, cyclic
// dependency) abort a run before anything is installed; the installation
// codes (clone failed, command failed) are localized to one package and are
// recorded in the run ledger instead of being returned.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid package name: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"

	// Resolution errors. Any of these aborts the run before installation.
	ErrCodeUnresolvedDependency Code = "UNRESOLVED_DEPENDENCY"
	ErrCodeMalformedManifest    Code = "MALFORMED_MANIFEST"
	ErrCodeCyclicDependency     Code = "CYCLIC_DEPENDENCY"

	// Installation errors, localized to a single package.
	ErrCodeCloneFailed   Code = "CLONE_FAILED"
	ErrCodeCommandFailed Code = "COMMAND_FAILED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeFatalPlanInvariant Code = "FATAL_PLAN_INVARIANT"
	ErrCodeInternal           Code = "INTERNAL_ERROR"
	ErrCodeCancelled          Code = "CANCELLED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// coder is implemented by the typed resolution errors below.
type coder interface{ ErrorCode() Code }

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain carries no code.
func GetCode(err error) Code {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// ErrorCode makes *Error satisfy the same lookup as the typed errors.
func (e *Error) ErrorCode() Code { return e.Code }

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsResolution reports whether err aborted a run during dependency
// resolution, before any package was installed.
func IsResolution(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnresolvedDependency, ErrCodeMalformedManifest, ErrCodeCyclicDependency, ErrCodeInvalidPackage:
		return true
	}
	return false
}

// UnresolvedDependencyError is returned when a manifest cannot be found for
// a package named by the root or by another package's dependency list.
type UnresolvedDependencyError struct {
	Name        string // Package that could not be fetched
	RequestedBy string // Package that declared the dependency ("" for the root)
	Cause       error  // Not-found or transport failure
}

func (e *UnresolvedDependencyError) Error() string {
	msg := fmt.Sprintf("%s: unresolved dependency %q", ErrCodeUnresolvedDependency, e.Name)
	if e.RequestedBy != "" {
		msg += fmt.Sprintf(" (required by %q)", e.RequestedBy)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnresolvedDependencyError) Unwrap() error   { return e.Cause }
func (e *UnresolvedDependencyError) ErrorCode() Code { return ErrCodeUnresolvedDependency }

// MalformedManifestError is returned when a fetched manifest cannot be
// decoded or fails validation.
type MalformedManifestError struct {
	Name   string
	Detail string
	Cause  error
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("%s: manifest for %q: %s", ErrCodeMalformedManifest, e.Name, e.Detail)
}

func (e *MalformedManifestError) Unwrap() error   { return e.Cause }
func (e *MalformedManifestError) ErrorCode() Code { return ErrCodeMalformedManifest }

// CyclicDependencyError is returned when the dependency graph contains a
// cycle. Path starts and ends at the cycle's entry point, so a self
// dependency of "a" is reported as [a a].
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeCyclicDependency, strings.Join(e.Path, " -> "))
}

func (e *CyclicDependencyError) ErrorCode() Code { return ErrCodeCyclicDependency }
