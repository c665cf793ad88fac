package repositories

import (
	"errors"
	"time"

	"fixer_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	Update(db *gorm.DB, job *models.Job) error
	FindWithFilter(db *gorm.DB, criteria JobFilter) ([]models.Job, int64, error)

	// MarkAssigned transitions a job to assigned as part of quote
	// acceptance. Conditional on the job still accepting quotes.
	MarkAssigned(db *gorm.DB, jobID, professionalID string) (int64, error)
	MarkQuoted(db *gorm.DB, jobID string) error
	Complete(db *gorm.DB, jobID string, at time.Time) (int64, error)
	Cancel(db *gorm.DB, jobID string) (int64, error)
	ExpireStale(db *gorm.DB, olderThan time.Time) (int64, error)
	IncrementViews(db *gorm.DB, jobID string) error
}

type JobFilter struct {
	ClientID       string
	ProfessionalID string // jobs assigned to this professional
	City           string
	Category       string
	Status         models.JobStatus
	Page           int
	PageSize       int
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.Job) error {
	result := db.Model(job).Updates(map[string]interface{}{
		"title":          job.Title,
		"description":    job.Description,
		"categories":     job.Categories,
		"city":           job.City,
		"address":        job.Address,
		"budget_min":     job.BudgetMin,
		"budget_max":     job.BudgetMax,
		"preferred_date": job.PreferredDate,
		"updated_at":     time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindWithFilter(db *gorm.DB, criteria JobFilter) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := db.Model(&models.Job{})

	if criteria.ClientID != "" {
		query = query.Where("client_id = ?", criteria.ClientID)
	}
	if criteria.ProfessionalID != "" {
		query = query.Where("assigned_pro_id = ?", criteria.ProfessionalID)
	}
	if criteria.City != "" {
		query = query.Where("city = ?", criteria.City)
	}
	if criteria.Category != "" {
		query = query.Where("categories @> ?", `["`+criteria.Category+`"]`)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) MarkAssigned(db *gorm.DB, jobID, professionalID string) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", jobID, []models.JobStatus{models.JobStatusOpen, models.JobStatusQuoted}).
		Updates(map[string]interface{}{
			"status":          models.JobStatusAssigned,
			"assigned_pro_id": professionalID,
			"updated_at":      time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *JobRepositoryImpl) MarkQuoted(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.JobStatusOpen).
		Updates(map[string]interface{}{
			"status":     models.JobStatusQuoted,
			"updated_at": time.Now(),
		}).Error
}

func (r *JobRepositoryImpl) Complete(db *gorm.DB, jobID string, at time.Time) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.JobStatusAssigned).
		Updates(map[string]interface{}{
			"status":       models.JobStatusCompleted,
			"completed_at": at,
			"updated_at":   at,
		})

	return result.RowsAffected, result.Error
}

func (r *JobRepositoryImpl) Cancel(db *gorm.DB, jobID string) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", jobID,
			[]models.JobStatus{models.JobStatusOpen, models.JobStatusQuoted, models.JobStatusAssigned}).
		Updates(map[string]interface{}{
			"status":     models.JobStatusCancelled,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *JobRepositoryImpl) ExpireStale(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("status IN ? AND created_at < ?",
			[]models.JobStatus{models.JobStatusOpen, models.JobStatusQuoted}, olderThan).
		Updates(map[string]interface{}{
			"status":     models.JobStatusExpired,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).Where("id = ?", jobID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
