package dto

import (
	"strings"
	"time"

	"fixer_backend/internal/models"
)

// RegisterRequest carries everything needed to open an account.
// Profile fields depend on the role: professionals describe their
// trade, clients just need a display name.
type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	FirstName string          `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string          `json:"last_name" validate:"required,min=1,max=100"`
	Role      models.UserRole `json:"role" validate:"required,oneof=client professional"`

	City        string `json:"city" validate:"required"`
	DisplayName string `json:"display_name" validate:"omitempty,max=150"`

	// Professional-only fields
	Categories      []string `json:"categories,omitempty" validate:"required_if=Role professional,omitempty,min=1,dive,min=2"`
	Bio             string   `json:"bio,omitempty" validate:"omitempty,max=5000"`
	YearsExperience int      `json:"years_experience,omitempty" validate:"omitempty,min=0,max=80"`
}

// Normalize lowercases and trims the email so lookups are
// case-insensitive no matter how the address was typed.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// VerifyEmailRequest accepts either proof form: a 6-digit code (with
// the email it was sent to) or a self-contained signed token.
type VerifyEmailRequest struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Code  string `json:"code,omitempty" validate:"omitempty,len=6,numeric"`
	Token string `json:"token,omitempty"`
}

func (r *VerifyEmailRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Code = strings.TrimSpace(r.Code)
	r.Token = strings.TrimSpace(r.Token)
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendVerificationRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// RegisterResponse reports the created account plus how the
// verification proof went out. Delivery is "sent" or "failed"; a
// failed send keeps the account so the proof can be re-requested.
type RegisterResponse struct {
	User     UserDTO `json:"user"`
	Delivery string  `json:"delivery"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

type UserDTO struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Role       models.UserRole   `json:"role"`
	Status     models.UserStatus `json:"status"`
	IsVerified bool              `json:"is_verified"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		Status:     user.Status,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
