package repositories

import (
	"errors"
	"time"

	"fixer_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	CreateProfessionalProfile(db *gorm.DB, profile *models.ProfessionalProfile) error
	CreateClientProfile(db *gorm.DB, profile *models.ClientProfile) error
	FindProfessionalByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error)
	FindClientByUserID(db *gorm.DB, userID string) (*models.ClientProfile, error)
	UpdateProfessionalProfile(db *gorm.DB, profile *models.ProfessionalProfile) error
	UpdateClientProfile(db *gorm.DB, profile *models.ClientProfile) error
	SetApproved(db *gorm.DB, userID string, approved bool) error
	UpdateRating(db *gorm.DB, userID string, avg float64, count int) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) CreateProfessionalProfile(db *gorm.DB, profile *models.ProfessionalProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) CreateClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindProfessionalByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindClientByUserID(db *gorm.DB, userID string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateProfessionalProfile(db *gorm.DB, profile *models.ProfessionalProfile) error {
	result := db.Model(profile).Updates(map[string]interface{}{
		"display_name":     profile.DisplayName,
		"city":             profile.City,
		"bio":              profile.Bio,
		"categories":       profile.Categories,
		"years_experience": profile.YearsExperience,
		"updated_at":       time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdateClientProfile(db *gorm.DB, profile *models.ClientProfile) error {
	result := db.Model(profile).Updates(map[string]interface{}{
		"display_name": profile.DisplayName,
		"city":         profile.City,
		"updated_at":   time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) SetApproved(db *gorm.DB, userID string, approved bool) error {
	result := db.Model(&models.ProfessionalProfile{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"is_approved": approved,
		"updated_at":  time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdateRating(db *gorm.DB, userID string, avg float64, count int) error {
	result := db.Model(&models.ProfessionalProfile{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"rating_avg":   avg,
		"rating_count": count,
		"updated_at":   time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
