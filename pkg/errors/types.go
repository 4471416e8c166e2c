// Package errors defines the coded errors dirtyfx returns across package
// boundaries.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Storage errors
	ErrCodeStorageOpen  ErrorCode = "STORAGE_OPEN"
	ErrCodeStorageRead  ErrorCode = "STORAGE_READ"
	ErrCodeStorageWrite ErrorCode = "STORAGE_WRITE"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// Form errors
	ErrCodeFormLoad    ErrorCode = "FORM_LOAD"
	ErrCodeFormSave    ErrorCode = "FORM_SAVE"
	ErrCodeFormInvalid ErrorCode = "FORM_INVALID"

	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error represents a structured dirtyfx error
type Error struct {
	Code        ErrorCode
	Message     string
	Underlying  error
	Context     map[string]any
	Stack       []Frame
	Retryable   bool
	UserMessage string
	Remediation []string
}

// Frame represents a stack frame
type Frame struct {
	Function string
	File     string
	Line     int
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with a code and message. Wrapping nil
// returns nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
		Stack:      captureStack(2),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithRetryable marks the error as retryable
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithUserMessage sets the human-friendly message shown in the status line.
func (e *Error) WithUserMessage(message string) *Error {
	e.UserMessage = message
	return e
}

// WithRemediation appends actionable remediation tips for the error.
func (e *Error) WithRemediation(tips ...string) *Error {
	if len(tips) == 0 {
		return e
	}
	e.Remediation = append([]string{}, tips...)
	return e
}

// Error implements the error interface. Context keys are printed sorted.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", k, e.Context[k]))
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Underlying))
	}

	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// StackTrace returns a formatted stack trace
func (e *Error) StackTrace() string {
	var sb strings.Builder

	sb.WriteString("Stack trace:\n")
	for i, frame := range e.Stack {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, frame.String()))
		sb.WriteString(fmt.Sprintf("     %s:%d\n", frame.File, frame.Line))
	}

	return sb.String()
}

// String formats a stack frame
func (f Frame) String() string {
	return f.Function
}

func captureStack(skip int) []Frame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr

	n := runtime.Callers(skip+1, pcs[:])
	frames := make([]Frame, 0, n)
	iter := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := iter.Next()
		frames = append(frames, Frame{
			Function: fr.Function,
			File:     fr.File,
			Line:     fr.Line,
		})
		if !more {
			break
		}
	}
	return frames
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var coded *Error
	if err == nil || !stderrors.As(err, &coded) {
		return nil, false
	}
	return coded, true
}

// IsCode checks if any error in err's chain has code
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		coded, ok := As(err)
		if !ok {
			return false
		}
		if coded.Code == code {
			return true
		}
		err = coded.Underlying
	}
	return false
}

// GetCode extracts the outermost error code. Uncoded errors report
// ErrCodeInternal.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	coded, ok := As(err)
	if !ok {
		return ErrCodeInternal
	}
	return coded.Code
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	coded, ok := As(err)
	return ok && coded.Retryable
}

// UserMessage returns the user-facing message of the outermost coded error,
// falling back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if coded, ok := As(err); ok && coded.UserMessage != "" {
		return coded.UserMessage
	}
	return err.Error()
}

// Remediation returns the remediation tips of the first coded error in err's
// chain that has any.
func Remediation(err error) []string {
	for err != nil {
		coded, ok := As(err)
		if !ok {
			return nil
		}
		if len(coded.Remediation) > 0 {
			return coded.Remediation
		}
		err = coded.Underlying
	}
	return nil
}
