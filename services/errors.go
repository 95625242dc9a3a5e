package services

import (
	"errors"
	"fmt"

	"github.com/Ritu-90/c25077715-cmt120-cw2/utils"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail returns a copy of the error carrying an extra detail.
// The sentinel values below are shared, so they are never mutated in place.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Type:    e.Type,
		Message: e.Message,
		Err:     e.Err,
		Details: details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrUserNotFound       = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrAboutNotFound      = NewDomainError(ErrorTypeNotFound, "about section not found", nil)
	ErrSocialLinkNotFound = NewDomainError(ErrorTypeNotFound, "social link not found", nil)
	ErrEducationNotFound  = NewDomainError(ErrorTypeNotFound, "education entry not found", nil)
	ErrExperienceNotFound = NewDomainError(ErrorTypeNotFound, "experience entry not found", nil)
	ErrSkillNotFound      = NewDomainError(ErrorTypeNotFound, "skill not found", nil)
	ErrProjectNotFound    = NewDomainError(ErrorTypeNotFound, "project not found", nil)
	ErrCommentNotFound    = NewDomainError(ErrorTypeNotFound, "comment not found", nil)
	ErrMessageNotFound    = NewDomainError(ErrorTypeNotFound, "message not found", nil)

	// Validation Errors
	ErrInvalidInput    = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidFileType = NewDomainError(ErrorTypeValidation, "invalid file type. Allowed: png, jpg, jpeg, gif, webp", nil)
	ErrFileTooLarge    = NewDomainError(ErrorTypeValidation, "uploaded file is too large", nil)

	// Authentication Errors
	ErrUnauthorized       = NewDomainError(ErrorTypeUnauthorized, "login required", nil)
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "invalid username or password", nil)
	ErrInvalidToken       = NewDomainError(ErrorTypeUnauthorized, "invalid authentication token", nil)

	// Permission Errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)

	// Conflict Errors
	ErrDuplicateAccount = NewDomainError(ErrorTypeConflict, "username or email already exists", nil)

	// Internal Errors
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError     = NewDomainError(ErrorTypeInternal, "database error", nil)
	ErrTransactionFailed = NewDomainError(ErrorTypeInternal, "transaction failed", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// ValidationFailed converts a struct validation failure into a validation
// DomainError whose details list every offending field.
// Errors that are already domain errors pass through untouched.
func ValidationFailed(err error) error {
	if err == nil {
		return nil
	}
	if GetErrorType(err) != "" {
		return err
	}
	if fields := utils.GetValidationFields(err); fields != nil {
		domainErr := NewDomainError(ErrorTypeValidation, "validation failed", nil)
		for field, msg := range fields {
			domainErr.Details[field] = msg
		}
		return domainErr
	}
	return NewDomainError(ErrorTypeValidation, err.Error(), err)
}

// FieldError builds a validation error for a single field.
func FieldError(field, message string) error {
	domainErr := NewDomainError(ErrorTypeValidation, "validation failed", nil)
	domainErr.Details[field] = message
	return domainErr
}

// Validate runs struct validation and converts failures with ValidationFailed.
func Validate(input interface{}) error {
	return ValidationFailed(utils.ValidateStruct(input))
}
