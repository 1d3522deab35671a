package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"

	// Generation
	CodeGenerationEmpty     ErrorCode = "GENERATION_EMPTY"
	CodeGenerationMalformed ErrorCode = "GENERATION_MALFORMED"
	CodeGenerationFailed    ErrorCode = "GENERATION_FAILED"

	CodeStorage ErrorCode = "STORAGE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithContext adds a detail entry that is returned to the client.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewNotFoundError(fmt.Sprintf("Quiz not found with ID: %s", quizID)).WithContext("id", quizID)
}

func NewRateLimitedError(message string) *DomainError {
	return NewError(CodeRateLimited, message, nil)
}

func NewGenerationEmptyError() *DomainError {
	return NewError(CodeGenerationEmpty, "The model returned no content", nil)
}

func NewGenerationMalformedError(cause error) *DomainError {
	return NewError(CodeGenerationMalformed, "The model returned content that is not a valid quiz", cause)
}

func NewGenerationFailedError(cause error) *DomainError {
	return NewError(CodeGenerationFailed, "The generation service could not be reached", cause)
}

func NewStorageError(message string, cause error) *DomainError {
	return NewError(CodeStorage, message, cause)
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
