package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails(map[string]string{"email": "required"})

	assert.NotNil(t, detailed.Details)
	assert.Nil(t, ErrValidationFailed.Details, "package sentinel must stay untouched")
	assert.Equal(t, ErrValidationFailed.Code, detailed.Code)
	assert.Equal(t, ErrValidationFailed.HTTPCode, detailed.HTTPCode)
}

func TestWithError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := ErrInvalidToken.WithError(cause)

	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, ErrInvalidToken.Err)
}

func TestMarshalJSON_OmitsInternals(t *testing.T) {
	appErr := Wrap(errors.New("pq: duplicate key"), CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	appErr = appErr.WithDetails(map[string]string{"email": "taken"})

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "EMAIL_ALREADY_EXISTS", decoded["code"])
	assert.Equal(t, "Email already exists", decoded["message"])
	assert.Contains(t, decoded, "details")
	assert.NotContains(t, decoded, "Err")
	assert.NotContains(t, decoded, "HTTPCode")
	assert.NotContains(t, string(data), "duplicate key")
}

func TestErrorString(t *testing.T) {
	plain := New(CodeUserNotFound, "User not found", http.StatusNotFound)
	assert.Equal(t, "USER_NOT_FOUND: User not found", plain.Error())

	withCause := plain.WithError(errors.New("sql: no rows"))
	assert.Contains(t, withCause.Error(), "sql: no rows")
}

func TestIs_MatchesSentinels(t *testing.T) {
	err := func() error { return ErrUserNotVerified }()

	assert.True(t, Is(err, ErrUserNotVerified))
	assert.False(t, Is(err, ErrUserBanned))
}

func TestSigninDenialStatuses(t *testing.T) {
	// Signin failures answer 401 whether the account is unknown, the
	// password is wrong, or the account is unverified; 403 is reserved
	// for suspended and banned accounts.
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidCredentials.HTTPCode)
	assert.Equal(t, http.StatusUnauthorized, ErrUserNotVerified.HTTPCode)
	assert.Equal(t, http.StatusForbidden, ErrUserSuspended.HTTPCode)
	assert.Equal(t, http.StatusForbidden, ErrUserBanned.HTTPCode)
}

func TestAs_ExtractsAppError(t *testing.T) {
	var appErr *AppError
	require.True(t, As(ErrProofExpired, &appErr))
	assert.Equal(t, CodeProofExpired, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
}

func TestInternalError(t *testing.T) {
	cause := errors.New("disk full")
	appErr := InternalError(cause)

	assert.Equal(t, CodeInternalError, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	assert.ErrorIs(t, appErr, cause)
}
