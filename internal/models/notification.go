package models

import "gorm.io/datatypes"

type NotificationType string

const (
	NotificationQuoteReceived  NotificationType = "quote_received"
	NotificationQuoteAccepted  NotificationType = "quote_accepted"
	NotificationQuoteRejected  NotificationType = "quote_rejected"
	NotificationJobCompleted   NotificationType = "job_completed"
	NotificationReviewReceived NotificationType = "review_received"
	NotificationAccountStatus  NotificationType = "account_status"
)

// Notification is an in-app notification record. Payload carries
// type-specific references (job id, quote id, ...) as JSONB.
type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index"`
	Type    NotificationType `gorm:"type:varchar(40);not null"`
	Title   string           `gorm:"not null"`
	Message string
	Payload datatypes.JSON `gorm:"type:jsonb"`
	IsRead  bool           `gorm:"default:false;index"`
}
