package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures raised while handling artifacts and inputs.
type ErrorKind string

const (
	KindUnknown         ErrorKind = "UNKNOWN"
	KindConfiguration   ErrorKind = "CONFIGURATION_INVALID"
	KindDirectory       ErrorKind = "DIRECTORY_ERROR"
	KindPathPolicy      ErrorKind = "PATH_POLICY"
	KindNotFound        ErrorKind = "FILE_NOT_FOUND"
	KindNotAFile        ErrorKind = "NOT_A_FILE"
	KindRead            ErrorKind = "FILE_READ_FAILED"
	KindUnsupportedType ErrorKind = "UNSUPPORTED_TYPE"
	KindDecode          ErrorKind = "DECODE_FAILED"
	KindResourceAccess  ErrorKind = "RESOURCE_ACCESS_DENIED"
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
)

// Error is the typed failure returned by the artifact layer. Message is
// always human readable and names the offending path or value.
type Error struct {
	Kind        ErrorKind
	Message     string
	Path        string
	Suggestions []string
	Cause       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

type ProviderError struct {
	Code       string
	Message    string
	Retryable  bool
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
