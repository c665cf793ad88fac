package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is a service job posted by a client. Quotes are only accepted
// while the status is open or quoted.
type Job struct {
	BaseModel
	ClientID       string `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    string
	Categories     datatypes.JSON `gorm:"type:jsonb"`
	City           string         `gorm:"index"`
	Address        *string
	BudgetMin      float64
	BudgetMax      float64
	PreferredDate  *time.Time
	Status         JobStatus `gorm:"type:varchar(20);default:'open';index"`
	AssignedProID  *string   `gorm:"index"` // professional whose quote was accepted
	CompletedAt    *time.Time
	Views          int
}
