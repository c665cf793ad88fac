package models

import "time"

// User is the persisted account record for an admin, client, or
// professional. Exactly one verification proof is in play at a time:
// either VerificationToken (link flow) or VerificationCode with
// CodeExpiresAt (code flow). The proof is cleared when IsVerified flips
// to true and must never be reusable afterwards.
type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	FirstName    string     `gorm:"not null"`
	LastName     string     `gorm:"not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified   bool       `gorm:"default:false"`

	VerificationToken string
	VerificationCode  string
	CodeExpiresAt     *time.Time

	ResetToken    string
	ResetTokenExp *time.Time

	// Relations
	ProfessionalProfile *ProfessionalProfile `gorm:"foreignKey:UserID"`
	ClientProfile       *ClientProfile       `gorm:"foreignKey:UserID"`
	RefreshTokens       []RefreshToken       `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
