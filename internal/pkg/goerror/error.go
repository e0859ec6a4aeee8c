package goerror

import (
	"errors"
	"fmt"
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents failures outside the caller's control (I/O, locking).
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to process exit codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates input that could not be parsed at all.
	CodeInvalidFormat
	// CodeInvalidInput indicates parsed input with invalid values.
	CodeInvalidInput
	// CodeNotFound indicates a missing credential.
	CodeNotFound
	// CodeConflict indicates a name collision.
	CodeConflict
	// CodeCorrupt indicates a persisted registry that cannot be decoded.
	CodeCorrupt
	// CodeTimeout indicates a lock or deadline expired.
	CodeTimeout
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeCorrupt:
		return "ERROR_CODE_CORRUPT"
	case CodeTimeout:
		return "ERROR_CODE_TIMEOUT"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a structured error used across the application.
//
// It wraps an underlying error (so errors.Is keeps matching domain sentinels)
// while carrying a fallback message, a high-level type and a stable code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "validation violation"
	case TypeBusiness:
		return "business rule violation"
	case TypeServer:
		return "internal error"
	default:
		return "unknown error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the fallback message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Fields returns validation errors (field to message map), if any.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// ExitCode maps the error code to a process exit status.
func (e *Error) ExitCode() int {
	switch e.code {
	case CodeInvalidFormat, CodeInvalidInput:
		return 2
	case CodeNotFound:
		return 3
	case CodeConflict:
		return 4
	case CodeCorrupt:
		return 5
	case CodeTimeout:
		return 6
	default:
		return 1
	}
}

// ExitCode returns the exit status for any error: 0 for nil, the mapped
// status for an *Error anywhere in the chain, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.ExitCode()
	}

	return 1
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return new(err, "internal error", TypeServer, CodeInternal)
}

// NewTimeout creates a server-type error for an expired wait.
func NewTimeout(err error) error {
	return new(err, "operation timed out", TypeServer, CodeTimeout)
}

// NewBusiness creates a business-type error wrapping err with the given code.
// err may be nil, in which case msg is reported.
func NewBusiness(err error, msg string, code Code) error {
	return new(err, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error. Either err is wrapped, or the
// key/value pairs in kv become the field map.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return new(err, "validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return new(nil, "invalid input", TypeValidation, CodeInvalidFormat)
	}

	errCustomValidate := &Error{err: nil, msg: "validation error", errType: TypeValidation, code: CodeInvalidInput}
	if errCustomValidate.fields == nil {
		errCustomValidate.fields = make(map[string]string)
	}

	for i := 0; i+1 < len(kv); i += 2 {
		errCustomValidate.fields[kv[i]] = kv[i+1]
	}

	return errCustomValidate
}

// NewInvalidFormat creates a validation error for input that could not be parsed.
func NewInvalidFormat(err error) error {
	return new(err, "invalid format", TypeValidation, CodeInvalidFormat)
}
