package validator

import (
	"testing"

	"fixer_backend/internal/models"
	"fixer_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	req := &dto.RegisterRequest{
		Password:  "longenough",
		FirstName: "Aidar",
		LastName:  "K",
		Role:      models.UserRoleClient,
		City:      "Almaty",
	}

	err := v.Validate(req)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "email")
	assert.NotContains(t, vErr.Errors, "Email")
}

func TestValidate_RegisterRequest_OK(t *testing.T) {
	v := New()

	req := &dto.RegisterRequest{
		Email:     "client@example.com",
		Password:  "longenough",
		FirstName: "Aidar",
		LastName:  "K",
		Role:      models.UserRoleClient,
		City:      "Almaty",
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidate_ProfessionalNeedsCategories(t *testing.T) {
	v := New()

	req := &dto.RegisterRequest{
		Email:     "pro@example.com",
		Password:  "longenough",
		FirstName: "Marat",
		LastName:  "S",
		Role:      models.UserRoleProfessional,
		City:      "Astana",
	}

	err := v.Validate(req)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "categories")

	req.Categories = []string{"plumbing"}
	assert.NoError(t, v.Validate(req))
}

func TestValidate_VerifyEmailCode(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&dto.VerifyEmailRequest{
		Email: "user@example.com",
		Code:  "123456",
	}))

	err := v.Validate(&dto.VerifyEmailRequest{
		Email: "user@example.com",
		Code:  "12345",
	})
	require.Error(t, err)

	err = v.Validate(&dto.VerifyEmailRequest{
		Email: "user@example.com",
		Code:  "12345a",
	})
	require.Error(t, err)

	// Token-only form needs neither email nor code.
	assert.NoError(t, v.Validate(&dto.VerifyEmailRequest{Token: "some.signed.token"}))
}

func TestCustomRules(t *testing.T) {
	v := New()

	type roleHolder struct {
		Role string `json:"role" validate:"omitempty,is-user-role"`
	}
	type statusHolder struct {
		Status string `json:"status" validate:"omitempty,is-job-status"`
	}

	assert.NoError(t, v.Validate(&roleHolder{Role: "client"}))
	assert.NoError(t, v.Validate(&roleHolder{Role: "professional"}))
	assert.NoError(t, v.Validate(&roleHolder{Role: "admin"}))
	assert.NoError(t, v.Validate(&roleHolder{Role: ""}))
	assert.Error(t, v.Validate(&roleHolder{Role: "superuser"}))

	assert.NoError(t, v.Validate(&statusHolder{Status: "open"}))
	assert.NoError(t, v.Validate(&statusHolder{Status: "assigned"}))
	assert.Error(t, v.Validate(&statusHolder{Status: "archived"}))
}
