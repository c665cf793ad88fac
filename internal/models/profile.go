package models

import "gorm.io/datatypes"

// ProfessionalProfile belongs to a user with the professional role.
// IsApproved is the admin moderation gate: unapproved professionals can
// log in but their quotes are not accepted by the quote service.
type ProfessionalProfile struct {
	BaseModel
	UserID          string         `gorm:"not null;uniqueIndex"`
	DisplayName     string         `gorm:"not null"`
	City            string         `gorm:"index"`
	Bio             string
	Categories      datatypes.JSON `gorm:"type:jsonb"` // trade categories, e.g. ["plumbing","electrical"]
	YearsExperience int
	IsApproved      bool `gorm:"default:false"`
	RatingAvg       float64
	RatingCount     int
}

// ClientProfile belongs to a user with the client role.
type ClientProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	DisplayName string `gorm:"not null"`
	City        string `gorm:"index"`
}
