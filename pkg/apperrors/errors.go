package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class in API responses.
type ErrorCode string

// AppError is the application error carried from services to the HTTP
// boundary. HTTPCode and the wrapped Err are never serialized.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails returns a copy carrying user-safe details, so the package
// level sentinels are never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithError returns a copy wrapping an underlying cause.
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// MarshalJSON keeps the wire shape explicit: only code, message, details.
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors.
var (
	// Authentication
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Verification
	ErrInvalidProof    = New(CodeInvalidProof, "Invalid verification code or token", http.StatusBadRequest)
	ErrProofExpired    = New(CodeProofExpired, "Verification code has expired", http.StatusBadRequest)
	ErrAlreadyVerified = New(CodeAlreadyVerified, "Account is already verified", http.StatusBadRequest)
	ErrDispatchFailure = New(CodeDispatchFailure, "Failed to deliver verification email", http.StatusInternalServerError)

	// Users
	ErrUserNotFound       = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrUserNotVerified    = New(CodeUserNotVerified, "User not verified", http.StatusUnauthorized)
	ErrUserNotApproved    = New(CodeUserNotApproved, "Account is awaiting admin approval", http.StatusForbidden)
	ErrUserSuspended      = New(CodeUserSuspended, "User account suspended", http.StatusForbidden)
	ErrUserBanned         = New(CodeUserBanned, "User account banned", http.StatusForbidden)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)
	ErrInvalidUserRole    = New(CodeInvalidUserRole, "Invalid user role", http.StatusBadRequest)

	// Jobs and quotes
	ErrJobNotFound        = New(CodeJobNotFound, "Job not found", http.StatusNotFound)
	ErrJobNotOpen         = New("JOB_NOT_OPEN", "Job is not open for quotes", http.StatusBadRequest)
	ErrQuoteNotFound      = New(CodeQuoteNotFound, "Quote not found", http.StatusNotFound)
	ErrQuoteAlreadyExists = New("QUOTE_ALREADY_EXISTS", "Quote already submitted for this job", http.StatusConflict)
	ErrQuoteNotPending    = New("QUOTE_NOT_PENDING", "Quote is no longer pending", http.StatusBadRequest)
	ErrCannotQuoteOwnJob  = New("CANNOT_QUOTE_OWN_JOB", "Cannot quote your own job", http.StatusBadRequest)

	// Reviews
	ErrReviewNotFound      = New("REVIEW_NOT_FOUND", "Review not found", http.StatusNotFound)
	ErrReviewAlreadyExists = New("REVIEW_ALREADY_EXISTS", "Review already submitted for this job", http.StatusConflict)
	ErrJobNotCompleted     = New("JOB_NOT_COMPLETED", "Job is not completed yet", http.StatusBadRequest)

	// Profiles
	ErrProfileNotFound = New(CodeProfileNotFound, "Profile not found", http.StatusNotFound)

	// Notifications
	ErrNotificationNotFound = New("NOTIFICATION_NOT_FOUND", "Notification not found", http.StatusNotFound)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
)

// Helpers for errors built with details at the call site.

func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewConflictError(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}
