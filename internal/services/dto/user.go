package dto

import (
	"strings"
	"time"

	"fixer_backend/internal/models"
)

// UserResponse carries the full account view including the role
// profile, used by /users/me and the admin detail endpoint.
type UserResponse struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Role       models.UserRole   `json:"role"`
	Status     models.UserStatus `json:"status"`
	IsVerified bool              `json:"is_verified"`
	Profile    interface{}       `json:"profile,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// --- Admin DTOs ---

type AdminUserFilter struct {
	Role       models.UserRole   `form:"role" validate:"omitempty,is-user-role"`
	Status     models.UserStatus `form:"status" validate:"omitempty,is-user-status"`
	IsVerified *bool             `form:"is_verified"`
	DateFrom   *time.Time        `form:"date_from" validate:"omitempty"`
	DateTo     *time.Time        `form:"date_to" validate:"omitempty,gtefield=DateFrom"`
	Search     string            `form:"search"`
	Page       int               `form:"page" validate:"omitempty,min=1"`
	PageSize   int               `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type AdminCreateUserRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name" validate:"required"`
	Role      models.UserRole `json:"role" validate:"required,is-user-role"`
}

func (r *AdminCreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,is-user-status"`
	Reason string            `json:"reason" validate:"omitempty,max=500"`
}

type UserListResponse struct {
	Users    []UserDTO `json:"users"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

type RegistrationStatsResponse struct {
	Total           int64            `json:"total"`
	Today           int64            `json:"today"`
	ThisWeek        int64            `json:"this_week"`
	ThisMonth       int64            `json:"this_month"`
	ByRole          map[string]int64 `json:"by_role"`
	VerifiedCount   int64            `json:"verified_count"`
	UnverifiedCount int64            `json:"unverified_count"`
}
