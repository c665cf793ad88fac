package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"fixer_backend/internal/models"
	"fixer_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistrationFlow walks the whole funnel: register, fail to log
// in while unverified, verify with the emailed code, log in.
func TestRegistrationFlow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	email := fmt.Sprintf("flow_%d@test.com", time.Now().UnixNano())

	registerBody := map[string]interface{}{
		"email":      email,
		"password":   "super_password123",
		"first_name": "Dana",
		"last_name":  "T",
		"role":       "client",
		"city":       "Almaty",
	}
	regRes, regBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, regRes.StatusCode, regBodyStr)
	assert.Contains(t, regBodyStr, `"delivery"`)
	assert.Contains(t, regBodyStr, `"pending"`)

	// Unverified accounts cannot log in yet, even with a wrong
	// password: the answer is the verification state, not the
	// credential check.
	loginBody := map[string]interface{}{"email": email, "password": "super_password123"}
	logRes, logBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusUnauthorized, logRes.StatusCode)
	assert.Contains(t, logBodyStr, "USER_NOT_VERIFIED")

	logRes, logBodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email": email, "password": "WRONG-password",
	})
	assert.Equal(t, http.StatusUnauthorized, logRes.StatusCode)
	assert.Contains(t, logBodyStr, "USER_NOT_VERIFIED")

	// The "mailbox": read the persisted code.
	code := helpers.VerificationCode(t, tx, email)

	verRes, verBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]interface{}{
		"email": email,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, verRes.StatusCode, verBodyStr)

	// A consumed code cannot be replayed.
	repRes, repBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]interface{}{
		"email": email,
		"code":  code,
	})
	assert.Equal(t, http.StatusBadRequest, repRes.StatusCode)
	assert.Contains(t, repBodyStr, "ALREADY_VERIFIED")

	logRes, logBodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, logRes.StatusCode, logBodyStr)
	assert.Contains(t, logBodyStr, "access_token")
	assert.Contains(t, logBodyStr, "refresh_token")
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	email := fmt.Sprintf("wrongcode_%d@test.com", time.Now().UnixNano())
	regRes, regBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":      email,
		"password":   "super_password123",
		"first_name": "Dana",
		"last_name":  "T",
		"role":       "client",
		"city":       "Almaty",
	})
	require.Equal(t, http.StatusCreated, regRes.StatusCode, regBodyStr)

	code := helpers.VerificationCode(t, tx, email)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/verify-email", "", map[string]interface{}{
		"email": email,
		"code":  wrong,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "INVALID_PROOF")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	email := fmt.Sprintf("dup_%d@test.com", time.Now().UnixNano())
	require.NoError(t, helpers.CreateUser(t, tx, &models.User{
		Email:        email,
		FirstName:    "User",
		LastName:     "One",
		PasswordHash: "pass12345",
		Role:         models.UserRoleClient,
	}))

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":      email,
		"password":   "password_is_long_enough",
		"first_name": "User",
		"last_name":  "Two",
		"role":       "client",
		"city":       "Astana",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "EMAIL_ALREADY_EXISTS")
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":      "not-an-email",
		"password":   "short",
		"first_name": "",
		"role":       "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "VALIDATION_FAILED")
	assert.Contains(t, bodyStr, `"email"`)
	assert.Contains(t, bodyStr, `"password"`)
}

func TestLogin_BadPassword(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	email := fmt.Sprintf("badpass_%d@test.com", time.Now().UnixNano())
	require.NoError(t, helpers.CreateUser(t, tx, &models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "correct-password",
		Role:         models.UserRoleClient,
	}))

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "WRONG-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "INVALID_CREDENTIALS")
}

func TestRefreshToken_Rotation(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	email := fmt.Sprintf("refresh_%d@test.com", time.Now().UnixNano())
	require.NoError(t, helpers.CreateUser(t, tx, &models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "password123",
		Role:         models.UserRoleClient,
	}))

	logRes, logBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, logRes.StatusCode, logBodyStr)

	var session struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(logBodyStr), &session))

	refRes, refBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refRes.StatusCode, refBodyStr)

	var rotated struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(refBodyStr), &rotated))
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The retired token no longer works.
	oldRes, oldBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, oldRes.StatusCode)
	assert.Contains(t, oldBodyStr, "INVALID_TOKEN")
}

func TestChangePassword(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user, _ := helpers.CreateAndLoginClient(t, ts, tx)

	// Wrong current password is refused.
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", token, map[string]interface{}{
		"current_password": "WRONG-password",
		"new_password":     "a-brand-new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "INVALID_CREDENTIALS")

	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", token, map[string]interface{}{
		"current_password": "password123",
		"new_password":     "a-brand-new-password",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// Old password is dead, new one logs in.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "a-brand-new-password",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestChangePassword_RequiresAuth(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", "", map[string]interface{}{
		"current_password": "whatever1",
		"new_password":     "a-brand-new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
