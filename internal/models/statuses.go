package models

type UserStatus string
type UserRole string
type JobStatus string
type QuoteStatus string
type ReviewStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleClient       UserRole = "client"
	UserRoleProfessional UserRole = "professional"
	UserRoleAdmin        UserRole = "admin"

	JobStatusOpen      JobStatus = "open"
	JobStatusQuoted    JobStatus = "quoted"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusExpired   JobStatus = "expired"

	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusWithdrawn QuoteStatus = "withdrawn"

	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)
