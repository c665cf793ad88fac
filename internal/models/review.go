package models

// Review is left by a client for a professional after a completed job.
// It stays pending until an admin moderates it.
type Review struct {
	BaseModel
	ClientID       string  `gorm:"not null;index"`
	ProfessionalID string  `gorm:"not null;index"`
	JobID          *string `gorm:"uniqueIndex"`
	Rating         int     `gorm:"not null"`
	ReviewText     string
	Status         ReviewStatus `gorm:"type:varchar(20);default:'pending';index"`
}
