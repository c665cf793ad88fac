package dto

import (
	"time"

	"fixer_backend/internal/models"
)

type CreateReviewRequest struct {
	ProfessionalID string  `json:"professional_id" validate:"required,uuid"`
	JobID          *string `json:"job_id,omitempty" validate:"omitempty,uuid"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`
	ReviewText     string  `json:"review_text" validate:"omitempty,max=3000"`
}

type ModerateReviewRequest struct {
	Status models.ReviewStatus `json:"status" validate:"required,oneof=approved rejected"`
}

type ReviewResponse struct {
	ID             string              `json:"id"`
	ClientID       string              `json:"client_id"`
	ProfessionalID string              `json:"professional_id"`
	JobID          *string             `json:"job_id,omitempty"`
	Rating         int                 `json:"rating"`
	ReviewText     string              `json:"review_text,omitempty"`
	Status         models.ReviewStatus `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews  []ReviewResponse `json:"reviews"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
