package dto

import (
	"time"

	"fixer_backend/internal/models"
)

type SubmitQuoteRequest struct {
	Price   float64 `json:"price" validate:"required,min=0"`
	Message string  `json:"message" validate:"omitempty,max=2000"`
}

type QuoteResponse struct {
	ID             string             `json:"id"`
	JobID          string             `json:"job_id"`
	ProfessionalID string             `json:"professional_id"`
	Price          float64            `json:"price"`
	Message        string             `json:"message,omitempty"`
	Status         models.QuoteStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type QuoteListResponse struct {
	Quotes   []QuoteResponse `json:"quotes"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
