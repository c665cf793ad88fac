package services

import (
	"time"

	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(db *gorm.DB, clientID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, jobID, viewerID string) (*dto.JobResponse, error)
	ListJobs(db *gorm.DB, criteria *dto.JobSearchCriteria) (*dto.JobListResponse, error)
	ListClientJobs(db *gorm.DB, clientID string, page, pageSize int) (*dto.JobListResponse, error)
	UpdateJob(db *gorm.DB, clientID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	CompleteJob(db *gorm.DB, clientID, jobID string) error
	CancelJob(db *gorm.DB, clientID, jobID string) error
}

type JobServiceImpl struct {
	jobRepo          repositories.JobRepository
	quoteRepo        repositories.QuoteRepository
	notificationRepo repositories.NotificationRepository
}

func NewJobService(
	jobRepo repositories.JobRepository,
	quoteRepo repositories.QuoteRepository,
	notificationRepo repositories.NotificationRepository,
) JobService {
	return &JobServiceImpl{
		jobRepo:          jobRepo,
		quoteRepo:        quoteRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *JobServiceImpl) CreateJob(db *gorm.DB, clientID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if req.BudgetMax > 0 && req.BudgetMax < req.BudgetMin {
		return nil, apperrors.NewBadRequestError("Maximum budget cannot be less than minimum budget")
	}

	categories, err := models.CategoriesJSON(req.Categories)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	job := &models.Job{
		ClientID:      clientID,
		Title:         req.Title,
		Description:   req.Description,
		Categories:    categories,
		City:          req.City,
		Address:       req.Address,
		BudgetMin:     req.BudgetMin,
		BudgetMax:     req.BudgetMax,
		PreferredDate: req.PreferredDate,
		Status:        models.JobStatusOpen,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.toResponse(job, 0), nil
}

// GetJob returns the job; views are counted only for readers other
// than the owner.
func (s *JobServiceImpl) GetJob(db *gorm.DB, jobID, viewerID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if viewerID != "" && viewerID != job.ClientID {
		if err := s.jobRepo.IncrementViews(db, jobID); err == nil {
			job.Views++
		}
	}

	quoteCount := 0
	if viewerID == job.ClientID {
		quotes, err := s.quoteRepo.FindByJob(db, jobID)
		if err == nil {
			quoteCount = len(quotes)
		}
	}

	return s.toResponse(job, quoteCount), nil
}

func (s *JobServiceImpl) ListJobs(db *gorm.DB, criteria *dto.JobSearchCriteria) (*dto.JobListResponse, error) {
	page, pageSize := normalizePagination(criteria.Page, criteria.PageSize)

	status := criteria.Status
	if status == "" {
		status = models.JobStatusOpen
	}

	jobs, total, err := s.jobRepo.FindWithFilter(db, repositories.JobFilter{
		City:     criteria.City,
		Category: criteria.Category,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.toListResponse(jobs, total, page, pageSize), nil
}

func (s *JobServiceImpl) ListClientJobs(db *gorm.DB, clientID string, page, pageSize int) (*dto.JobListResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	jobs, total, err := s.jobRepo.FindWithFilter(db, repositories.JobFilter{
		ClientID: clientID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.toListResponse(jobs, total, page, pageSize), nil
}

// UpdateJob lets the owner edit a job while it still accepts quotes.
func (s *JobServiceImpl) UpdateJob(db *gorm.DB, clientID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if job.ClientID != clientID {
		return nil, apperrors.ErrForbidden
	}

	if job.Status != models.JobStatusOpen && job.Status != models.JobStatusQuoted {
		return nil, apperrors.ErrJobNotOpen
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Categories != nil {
		categories, err := models.CategoriesJSON(req.Categories)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		job.Categories = categories
	}
	if req.City != nil {
		job.City = *req.City
	}
	if req.Address != nil {
		job.Address = req.Address
	}
	if req.BudgetMin != nil {
		job.BudgetMin = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		job.BudgetMax = *req.BudgetMax
	}
	if req.PreferredDate != nil {
		job.PreferredDate = req.PreferredDate
	}

	if job.BudgetMax > 0 && job.BudgetMax < job.BudgetMin {
		return nil, apperrors.NewBadRequestError("Maximum budget cannot be less than minimum budget")
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.toResponse(job, 0), nil
}

// CompleteJob marks an assigned job done and tells the professional.
func (s *JobServiceImpl) CompleteJob(db *gorm.DB, clientID, jobID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.InternalError(err)
	}

	if job.ClientID != clientID {
		return apperrors.ErrForbidden
	}

	rows, err := s.jobRepo.Complete(db, jobID, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if rows == 0 {
		return apperrors.NewBadRequestError("Only an assigned job can be completed")
	}

	if job.AssignedProID != nil {
		notify(db, s.notificationRepo, *job.AssignedProID, models.NotificationJobCompleted,
			"Job completed", "The client marked the job '"+job.Title+"' as completed.",
			map[string]interface{}{"job_id": job.ID})
	}

	return nil
}

func (s *JobServiceImpl) CancelJob(db *gorm.DB, clientID, jobID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.InternalError(err)
	}

	if job.ClientID != clientID {
		return apperrors.ErrForbidden
	}

	rows, err := s.jobRepo.Cancel(db, jobID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if rows == 0 {
		return apperrors.NewBadRequestError("Job can no longer be cancelled")
	}

	if job.AssignedProID != nil {
		notify(db, s.notificationRepo, *job.AssignedProID, models.NotificationAccountStatus,
			"Job cancelled", "The job '"+job.Title+"' was cancelled by the client.",
			map[string]interface{}{"job_id": job.ID})
	}

	return nil
}

func (s *JobServiceImpl) toResponse(job *models.Job, quoteCount int) *dto.JobResponse {
	return &dto.JobResponse{
		ID:            job.ID,
		ClientID:      job.ClientID,
		Title:         job.Title,
		Description:   job.Description,
		Categories:    models.CategoriesFromJSON(job.Categories),
		City:          job.City,
		Address:       job.Address,
		BudgetMin:     job.BudgetMin,
		BudgetMax:     job.BudgetMax,
		PreferredDate: job.PreferredDate,
		Status:        job.Status,
		AssignedProID: job.AssignedProID,
		CompletedAt:   job.CompletedAt,
		Views:         job.Views,
		QuoteCount:    quoteCount,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

func (s *JobServiceImpl) toListResponse(jobs []models.Job, total int64, page, pageSize int) *dto.JobListResponse {
	resp := &dto.JobListResponse{
		Jobs:     make([]dto.JobResponse, 0, len(jobs)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, *s.toResponse(&jobs[i], 0))
	}
	return resp
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
