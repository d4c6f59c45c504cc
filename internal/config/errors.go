package config

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the configuration file does not exist.
	ErrCodeNotFound ErrorCode = "CONFIG_NOT_FOUND"

	// ErrCodeParse indicates the file is not valid TOML.
	ErrCodeParse ErrorCode = "CONFIG_PARSE"

	// ErrCodeSchema indicates the document violates the embedded schema.
	ErrCodeSchema ErrorCode = "CONFIG_SCHEMA"

	// ErrCodeMissingKey indicates a required key is absent.
	ErrCodeMissingKey ErrorCode = "CONFIG_MISSING_KEY"
)

// Error represents a configuration failure. Configuration errors are
// fatal: they abort the run rather than degrading to a warning.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string // file path or dotted key, whichever identifies the failure
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if err is a configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// NewMissingKeyError creates an Error for an absent required key.
func NewMissingKeyError(key string) *Error {
	return &Error{
		Code:    ErrCodeMissingKey,
		Message: "required configuration key not found",
		Path:    key,
	}
}
