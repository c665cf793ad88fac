package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"fixer_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user directly, hashing the password when a raw
// one was passed in PasswordHash. Defaults to active and verified so
// the account can log in straight away.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	t.Helper()

	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("failed to hash test password: %v", err)
		}
		user.PasswordHash = string(hashed)
	}

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.IsVerified = true

	return db.Create(user).Error
}

// CreateAndLoginUser creates a verified user and logs it in through
// the API, returning the access token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: password,
		Role:         role,
	}
	require.NoError(t, CreateUser(t, tx, user))

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: "+bodyStr)

	var loginResponse struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.AccessToken)

	return loginResponse.AccessToken, user
}

// CreateAndLoginClient creates a client with its profile, using a
// unique email so tests cannot collide.
func CreateAndLoginClient(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User, *models.ClientProfile) {
	t.Helper()

	email := fmt.Sprintf("client_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, tx, email, "password123", models.UserRoleClient)

	profile := &models.ClientProfile{
		UserID:      user.ID,
		DisplayName: "Test Client",
		City:        "Almaty",
	}
	require.NoError(t, tx.Create(profile).Error)

	return token, user, profile
}

// CreateAndLoginProfessional creates an approved professional with its
// profile.
func CreateAndLoginProfessional(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User, *models.ProfessionalProfile) {
	t.Helper()

	email := fmt.Sprintf("pro_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, tx, email, "password123", models.UserRoleProfessional)

	categories, err := models.CategoriesJSON([]string{"plumbing"})
	require.NoError(t, err)

	profile := &models.ProfessionalProfile{
		UserID:      user.ID,
		DisplayName: "Test Professional",
		City:        "Almaty",
		Categories:  categories,
		IsApproved:  true,
	}
	require.NoError(t, tx.Create(profile).Error)

	return token, user, profile
}

// CreateAndLoginAdmin creates an admin account.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	t.Helper()

	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, tx, email, "password123", models.UserRoleAdmin)
	return token, user
}

// VerificationCode reads the persisted code for an email, standing in
// for reading the mailbox.
func VerificationCode(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	assert.NotEmpty(t, user.VerificationCode, "expected a persisted verification code for %s", email)
	return user.VerificationCode
}
