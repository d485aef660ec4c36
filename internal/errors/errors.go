package errors

import (
	"fmt"
)

// BridgeError is the structured error type for the bridge.
// It carries enough context to reproduce the failing call and, where
// applicable, an actionable remediation suggestion.
type BridgeError struct {
	// Code is the unique error code (e.g., "ERR_201_MODULE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Input, Dependency, Provider, ...).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *BridgeError) Is(target error) bool {
	if t, ok := target.(*BridgeError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *BridgeError) WithDetail(key, value string) *BridgeError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *BridgeError) WithSuggestion(suggestion string) *BridgeError {
	e.Suggestion = suggestion
	return e
}

// New creates a new BridgeError with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *BridgeError {
	return &BridgeError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a BridgeError from an existing error.
// The error's message becomes the BridgeError message.
func Wrap(code string, err error) *BridgeError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ProviderFault creates a provider-fault error for a failed provider call.
func ProviderFault(message string, cause error) *BridgeError {
	return New(ErrCodeSearchFailed, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string) *BridgeError {
	return New(ErrCodeMissingField, message, nil)
}

// GetCode extracts the error code from a BridgeError.
// Returns empty string if not a BridgeError.
func GetCode(err error) string {
	if be, ok := err.(*BridgeError); ok {
		return be.Code
	}
	return ""
}

// GetCategory extracts the category from a BridgeError.
// Returns empty string if not a BridgeError.
func GetCategory(err error) Category {
	if be, ok := err.(*BridgeError); ok {
		return be.Category
	}
	return ""
}
