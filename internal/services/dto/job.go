package dto

import (
	"time"

	"fixer_backend/internal/models"
)

// --- Job Requests ---

type CreateJobRequest struct {
	Title         string     `json:"title" validate:"required,min=3,max=150"`
	Description   string     `json:"description" validate:"omitempty,max=5000"`
	Categories    []string   `json:"categories" validate:"required,min=1,dive,min=2"`
	City          string     `json:"city" validate:"required"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=300"`
	BudgetMin     float64    `json:"budget_min" validate:"omitempty,min=0"`
	BudgetMax     float64    `json:"budget_max" validate:"omitempty,min=0,gtefield=BudgetMin"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
}

type UpdateJobRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Categories    []string   `json:"categories,omitempty" validate:"omitempty,min=1,dive,min=2"`
	City          *string    `json:"city,omitempty"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=300"`
	BudgetMin     *float64   `json:"budget_min,omitempty" validate:"omitempty,min=0"`
	BudgetMax     *float64   `json:"budget_max,omitempty" validate:"omitempty,min=0"`
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
}

type JobSearchCriteria struct {
	City     string           `form:"city"`
	Category string           `form:"category"`
	Status   models.JobStatus `form:"status" validate:"omitempty,is-job-status"`
	Page     int              `form:"page" validate:"omitempty,min=1"`
	PageSize int              `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// --- Job Responses ---

type JobResponse struct {
	ID            string           `json:"id"`
	ClientID      string           `json:"client_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Categories    []string         `json:"categories"`
	City          string           `json:"city"`
	Address       *string          `json:"address,omitempty"`
	BudgetMin     float64          `json:"budget_min"`
	BudgetMax     float64          `json:"budget_max"`
	PreferredDate *time.Time       `json:"preferred_date,omitempty"`
	Status        models.JobStatus `json:"status"`
	AssignedProID *string          `json:"assigned_pro_id,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	Views         int              `json:"views"`
	QuoteCount    int              `json:"quote_count,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type JobListResponse struct {
	Jobs     []JobResponse `json:"jobs"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
