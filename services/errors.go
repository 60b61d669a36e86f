package services

import (
	"errors"
	"fmt"

	"github.com/upb/rol-control-plane/repositories"
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
	ErrorTypeExternal     ErrorType = "external"
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

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
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

// Domain error variables. Compare with errors.Is, which matches on Type;
// build new errors with NewDomainError instead of adding details to these.

var (
	// Not Found Errors
	ErrStaffMemberNotFound  = NewDomainError(ErrorTypeNotFound, "staff member not found", nil)
	ErrOrganizationNotFound = NewDomainError(ErrorTypeNotFound, "organization not found", nil)
	ErrTeamNotFound         = NewDomainError(ErrorTypeNotFound, "team not found", nil)
	ErrTournamentNotFound   = NewDomainError(ErrorTypeNotFound, "tournament not found", nil)
	ErrLeagueNotFound       = NewDomainError(ErrorTypeNotFound, "league not found", nil)
	ErrProfileNotFound      = NewDomainError(ErrorTypeNotFound, "profile not found", nil)

	// Validation Errors
	ErrInvalidInput  = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidRole   = NewDomainError(ErrorTypeValidation, "invalid staff role", nil)
	ErrInvalidRegion = NewDomainError(ErrorTypeValidation, "invalid region", nil)

	// Authorization Errors
	ErrUnauthorized       = NewDomainError(ErrorTypeUnauthorized, "unauthorized", nil)
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "invalid email or password", nil)
	ErrSessionExpired     = NewDomainError(ErrorTypeUnauthorized, "session expired", nil)

	// Permission Errors
	ErrForbidden               = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)
	ErrInsufficientPermissions = NewDomainError(ErrorTypeForbidden, "insufficient permissions", nil)
	ErrCannotManageRole        = NewDomainError(ErrorTypeForbidden, "role cannot be managed by caller", nil)
	ErrOrgMismatch             = NewDomainError(ErrorTypeForbidden, "organization mismatch", nil)

	// Conflict Errors
	ErrDuplicateStaffMember = NewDomainError(ErrorTypeConflict, "user is already a staff member", nil)
	ErrAlreadyRegistered    = NewDomainError(ErrorTypeConflict, "team already registered", nil)
	ErrTournamentFull       = NewDomainError(ErrorTypeConflict, "tournament is full", nil)
	ErrRegistrationClosed   = NewDomainError(ErrorTypeConflict, "tournament registration is closed", nil)

	// Internal Errors
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError     = NewDomainError(ErrorTypeInternal, "database error", nil)
	ErrTransactionFailed = NewDomainError(ErrorTypeInternal, "transaction failed", nil)

	// External Errors
	ErrAuthServerUnavailable = NewDomainError(ErrorTypeExternal, "auth server unavailable", nil)
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

// IsExternalError checks if an error is an external service error
func IsExternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeExternal
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

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal wraps an error as an external service error
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}

// WrapRepositoryError maps repository sentinels onto the domain taxonomy.
// entity names the record in the message, e.g. "tournament".
func WrapRepositoryError(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return NewDomainError(ErrorTypeNotFound, entity+" not found", err)
	case errors.Is(err, repositories.ErrDuplicate):
		return NewDomainError(ErrorTypeConflict, entity+" already exists", err)
	default:
		return NewDomainError(ErrorTypeInternal, entity+" lookup failed", err)
	}
}
