package dto

import (
	"time"

	"fixer_backend/internal/models"
)

type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page" validate:"omitempty,min=1"`
	PageSize   int  `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Payload   interface{}             `json:"payload,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}
