package repositories

import (
	"errors"
	"time"

	"fixer_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists")
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindApprovedByProfessional(db *gorm.DB, professionalID string, page, pageSize int) ([]models.Review, int64, error)
	FindByStatus(db *gorm.DB, status models.ReviewStatus, page, pageSize int) ([]models.Review, int64, error)
	UpdateStatus(db *gorm.DB, reviewID string, status models.ReviewStatus) error
	AggregateRating(db *gorm.DB, professionalID string) (float64, int, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	if review.JobID != nil {
		var existing models.Review
		if err := db.Where("job_id = ?", *review.JobID).First(&existing).Error; err == nil {
			return ErrReviewAlreadyExists
		}
	}

	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindApprovedByProfessional(db *gorm.DB, professionalID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := db.Model(&models.Review{}).
		Where("professional_id = ? AND status = ?", professionalID, models.ReviewStatusApproved)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) FindByStatus(db *gorm.DB, status models.ReviewStatus, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := db.Model(&models.Review{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) UpdateStatus(db *gorm.DB, reviewID string, status models.ReviewStatus) error {
	result := db.Model(&models.Review{}).Where("id = ?", reviewID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) AggregateRating(db *gorm.DB, professionalID string) (float64, int, error) {
	type agg struct {
		Avg   float64
		Count int64
	}

	var result agg
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("professional_id = ? AND status = ?", professionalID, models.ReviewStatusApproved).
		Scan(&result).Error

	return result.Avg, int(result.Count), err
}
