package apperrors

// Error codes grouped by domain.
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Verification
	CodeInvalidProof    ErrorCode = "INVALID_PROOF"
	CodeProofExpired    ErrorCode = "PROOF_EXPIRED"
	CodeAlreadyVerified ErrorCode = "ALREADY_VERIFIED"
	CodeDispatchFailure ErrorCode = "DISPATCH_FAILURE"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Resources
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	CodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	CodeJobNotFound     ErrorCode = "JOB_NOT_FOUND"
	CodeQuoteNotFound   ErrorCode = "QUOTE_NOT_FOUND"

	// Business logic
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeUserNotVerified    ErrorCode = "USER_NOT_VERIFIED"
	CodeUserNotApproved    ErrorCode = "USER_NOT_APPROVED"
	CodeUserSuspended      ErrorCode = "USER_SUSPENDED"
	CodeUserBanned         ErrorCode = "USER_BANNED"
	CodeConflict           ErrorCode = "CONFLICT"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
