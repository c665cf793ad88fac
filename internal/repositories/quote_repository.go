package repositories

import (
	"errors"
	"time"

	"fixer_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrQuoteNotFound      = errors.New("quote not found")
	ErrQuoteAlreadyExists = errors.New("quote already exists")
	ErrQuoteNotPending    = errors.New("quote is not pending")
)

type QuoteRepository interface {
	Create(db *gorm.DB, quote *models.Quote) error
	FindByID(db *gorm.DB, id string) (*models.Quote, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Quote, error)
	FindByProfessional(db *gorm.DB, professionalID string, page, pageSize int) ([]models.Quote, int64, error)

	// Accept marks the quote accepted, rejects its pending siblings, and
	// assigns the job in one transaction. Returns ErrQuoteNotPending
	// when the quote (or the job) already moved on.
	Accept(db *gorm.DB, quote *models.Quote, jobRepo JobRepository) error

	Withdraw(db *gorm.DB, quoteID, professionalID string) (int64, error)
}

type QuoteRepositoryImpl struct{}

func NewQuoteRepository() QuoteRepository {
	return &QuoteRepositoryImpl{}
}

func (r *QuoteRepositoryImpl) Create(db *gorm.DB, quote *models.Quote) error {
	var existing models.Quote
	err := db.Where("job_id = ? AND professional_id = ?", quote.JobID, quote.ProfessionalID).
		First(&existing).Error
	if err == nil {
		return ErrQuoteAlreadyExists
	}

	return db.Create(quote).Error
}

func (r *QuoteRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Quote, error) {
	var quote models.Quote
	err := db.First(&quote, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Quote, error) {
	var quotes []models.Quote
	err := db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&quotes).Error
	return quotes, err
}

func (r *QuoteRepositoryImpl) FindByProfessional(db *gorm.DB, professionalID string, page, pageSize int) ([]models.Quote, int64, error) {
	var quotes []models.Quote
	query := db.Model(&models.Quote{}).Where("professional_id = ?", professionalID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&quotes).Error

	return quotes, total, err
}

func (r *QuoteRepositoryImpl) Accept(db *gorm.DB, quote *models.Quote, jobRepo JobRepository) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		accepted := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", quote.ID, models.QuoteStatusPending).
			Updates(map[string]interface{}{
				"status":     models.QuoteStatusAccepted,
				"updated_at": now,
			})
		if accepted.Error != nil {
			return accepted.Error
		}
		if accepted.RowsAffected == 0 {
			return ErrQuoteNotPending
		}

		if err := tx.Model(&models.Quote{}).
			Where("job_id = ? AND id != ? AND status = ?", quote.JobID, quote.ID, models.QuoteStatusPending).
			Updates(map[string]interface{}{
				"status":     models.QuoteStatusRejected,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		rows, err := jobRepo.MarkAssigned(tx, quote.JobID, quote.ProfessionalID)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Job already assigned, completed, or cancelled.
			return ErrQuoteNotPending
		}

		return nil
	})
}

func (r *QuoteRepositoryImpl) Withdraw(db *gorm.DB, quoteID, professionalID string) (int64, error) {
	result := db.Model(&models.Quote{}).
		Where("id = ? AND professional_id = ? AND status = ?", quoteID, professionalID, models.QuoteStatusPending).
		Updates(map[string]interface{}{
			"status":     models.QuoteStatusWithdrawn,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}
