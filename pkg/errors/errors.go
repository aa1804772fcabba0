// Package errors is the structured error type of paldeploy. Every error
// raised by the tool carries a stable code, the paths involved as details,
// and the underlying cause.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable identifier for an error category
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"

	// .lib/.ref parsing and trust
	ErrDescriptorInvalid   ErrorCode = "DESCRIPTOR_INVALID"
	ErrDescriptorUntrusted ErrorCode = "DESCRIPTOR_UNTRUSTED"

	// git
	ErrRemoteMismatch ErrorCode = "REMOTE_MISMATCH"
	ErrVCSConflict    ErrorCode = "VCS_CONFLICT"
	ErrVCSExecute     ErrorCode = "VCS_EXECUTE"

	// patch
	ErrPatchMalformed ErrorCode = "PATCH_MALFORMED"
	ErrPatchApply     ErrorCode = "PATCH_APPLY"

	ErrToolMissing         ErrorCode = "TOOL_MISSING"
	ErrPlatformUnsupported ErrorCode = "PLATFORM_UNSUPPORTED"
	ErrSelectionInvalid    ErrorCode = "SELECTION_INVALID"
	ErrIncompatible        ErrorCode = "INCOMPATIBLE"
	ErrCommandExecute      ErrorCode = "COMMAND_EXECUTE"
)

// hints tell the operator what usually resolves an error of that code
var hints = map[ErrorCode]string{
	ErrDescriptorUntrusted: "only github.com repositories may be referenced from .lib files",
	ErrRemoteMismatch:      "remove the directory or fix the descriptor so the origins agree",
	ErrVCSConflict:         "resolve the conflict in the repository or rerun with --force",
	ErrPatchApply:          "check that the target directory is clean, --force discards local edits",
	ErrToolMissing:         "install the tool or point tools.<name> in .paldeploy.toml at it",
	ErrPlatformUnsupported: "run 'paldeploy info' to list the supported names",
	ErrSelectionInvalid:    "pass --os and --device, or --sdk",
}

// Error is a coded error with details and an optional cause
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is matches any *Error with the same code, so a bare New(code, "") works as
// a sentinel for errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == e.Code
}

// WithDetail records key=value on e and returns it for chaining
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func build(cause error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: map[string]interface{}{}, Wrapped: cause}
}

// New creates an Error
func New(code ErrorCode, message string) *Error {
	return build(nil, code, message)
}

// Newf creates an Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return build(nil, code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return build(err, code, message)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return build(err, code, fmt.Sprintf(format, args...))
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsErrorCode reports whether the outermost *Error in err's chain has code
func IsErrorCode(err error, code ErrorCode) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetErrorCode returns the outermost code, ErrUnknown for foreign errors
func GetErrorCode(err error) ErrorCode {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the outermost details, nil for foreign errors
func GetErrorDetails(err error) map[string]interface{} {
	if e, ok := find(err); ok {
		return e.Details
	}
	return nil
}

// Hint returns the remedy for the first coded error in err's chain that has
// one, or "" when none does
func Hint(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if h, ok := hints[e.Code]; ok {
				return h
			}
		}
		err = errors.Unwrap(err)
	}
	return ""
}
