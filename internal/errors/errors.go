package errors

import (
	"errors"
	"fmt"
)

// Error codes used across the toolkit. HTTP handlers map these onto
// problem-details responses; CLI tools print them as-is.
const (
	CodeParse      = "PARSE_FAILED"
	CodeOutOfRange = "OUT_OF_RANGE"
	CodeNotLoaded  = "NOT_LOADED"
	CodeValidation = "VALIDATION_FAILED"
	CodeNotFound   = "NOT_FOUND"
	CodeFileSystem = "FILESYSTEM_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// DomainError is a coded error carrying optional structured details.
type DomainError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	wrapped error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *DomainError) Unwrap() error {
	return e.wrapped
}

// Is matches two DomainErrors by code so sentinel comparisons work
// through wrapping.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// New creates a new DomainError with the given code and message
func New(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Wrap creates a DomainError around an underlying cause
func Wrap(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, wrapped: err}
}

// Sentinels for errors.Is checks
var (
	ErrParse      = New(CodeParse, "failed to parse input")
	ErrOutOfRange = New(CodeOutOfRange, "value outside recorded range")
	ErrNotLoaded  = New(CodeNotLoaded, "no data loaded")
	ErrNotFound   = New(CodeNotFound, "resource not found")
)

// ParseDetail pinpoints a malformed token in an input file.
type ParseDetail struct {
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	Token string `json:"token,omitempty"`
}

// ParseError creates a parse error located at a file and line
func ParseError(file string, line int, token string, err error) *DomainError {
	return &DomainError{
		Code:    CodeParse,
		Message: fmt.Sprintf("parse error in %s line %d", file, line),
		Details: ParseDetail{File: file, Line: line, Token: token},
		wrapped: err,
	}
}

// OutOfRangeError creates an out-of-range error for a dated query
func OutOfRangeError(message string) *DomainError {
	return New(CodeOutOfRange, message)
}

// ValidationError creates a validation error with field details
func ValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
		Details: map[string]string{"field": field},
	}
}

// FileSystemError creates a filesystem error for the given operation
func FileSystemError(operation string, err error) *DomainError {
	return Wrap(CodeFileSystem, fmt.Sprintf("file system error during %s", operation), err)
}
