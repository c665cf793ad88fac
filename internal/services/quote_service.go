package services

import (
	"fmt"

	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type QuoteService interface {
	SubmitQuote(db *gorm.DB, professionalID, jobID string, req *dto.SubmitQuoteRequest) (*dto.QuoteResponse, error)
	ListJobQuotes(db *gorm.DB, clientID, jobID string) ([]dto.QuoteResponse, error)
	ListMyQuotes(db *gorm.DB, professionalID string, page, pageSize int) (*dto.QuoteListResponse, error)
	AcceptQuote(db *gorm.DB, clientID, quoteID string) error
	WithdrawQuote(db *gorm.DB, professionalID, quoteID string) error
}

type QuoteServiceImpl struct {
	quoteRepo        repositories.QuoteRepository
	jobRepo          repositories.JobRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
}

func NewQuoteService(
	quoteRepo repositories.QuoteRepository,
	jobRepo repositories.JobRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
) QuoteService {
	return &QuoteServiceImpl{
		quoteRepo:        quoteRepo,
		jobRepo:          jobRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
	}
}

// SubmitQuote files one quote per professional per job. Only approved
// professionals may quote, and only while the job accepts quotes.
func (s *QuoteServiceImpl) SubmitQuote(db *gorm.DB, professionalID, jobID string, req *dto.SubmitQuoteRequest) (*dto.QuoteResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if job.ClientID == professionalID {
		return nil, apperrors.ErrCannotQuoteOwnJob
	}

	if job.Status != models.JobStatusOpen && job.Status != models.JobStatusQuoted {
		return nil, apperrors.ErrJobNotOpen
	}

	profile, err := s.profileRepo.FindProfessionalByUserID(db, professionalID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !profile.IsApproved {
		return nil, apperrors.ErrUserNotApproved
	}

	quote := &models.Quote{
		JobID:          jobID,
		ProfessionalID: professionalID,
		Price:          req.Price,
		Message:        req.Message,
		Status:         models.QuoteStatusPending,
	}

	if err := s.quoteRepo.Create(db, quote); err != nil {
		if apperrors.Is(err, repositories.ErrQuoteAlreadyExists) {
			return nil, apperrors.ErrQuoteAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.MarkQuoted(db, jobID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	notify(db, s.notificationRepo, job.ClientID, models.NotificationQuoteReceived,
		"New quote received",
		fmt.Sprintf("%s quoted %.2f for '%s'.", profile.DisplayName, req.Price, job.Title),
		map[string]interface{}{"job_id": job.ID, "quote_id": quote.ID})

	return toQuoteResponse(quote), nil
}

// ListJobQuotes returns all quotes for a job; only the job owner sees
// them.
func (s *QuoteServiceImpl) ListJobQuotes(db *gorm.DB, clientID, jobID string) ([]dto.QuoteResponse, error) {
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

	quotes, err := s.quoteRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.QuoteResponse, 0, len(quotes))
	for i := range quotes {
		resp = append(resp, *toQuoteResponse(&quotes[i]))
	}
	return resp, nil
}

func (s *QuoteServiceImpl) ListMyQuotes(db *gorm.DB, professionalID string, page, pageSize int) (*dto.QuoteListResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	quotes, total, err := s.quoteRepo.FindByProfessional(db, professionalID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.QuoteListResponse{
		Quotes:   make([]dto.QuoteResponse, 0, len(quotes)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range quotes {
		resp.Quotes = append(resp.Quotes, *toQuoteResponse(&quotes[i]))
	}
	return resp, nil
}

// AcceptQuote assigns the job to the quoting professional. The accept,
// the sibling rejections, and the job transition commit together or
// not at all.
func (s *QuoteServiceImpl) AcceptQuote(db *gorm.DB, clientID, quoteID string) error {
	quote, err := s.quoteRepo.FindByID(db, quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return apperrors.ErrQuoteNotFound
		}
		return apperrors.InternalError(err)
	}

	job, err := s.jobRepo.FindByID(db, quote.JobID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if job.ClientID != clientID {
		return apperrors.ErrForbidden
	}

	siblings, err := s.quoteRepo.FindByJob(db, quote.JobID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.quoteRepo.Accept(db, quote, s.jobRepo); err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotPending) {
			return apperrors.ErrQuoteNotPending
		}
		return apperrors.InternalError(err)
	}

	notify(db, s.notificationRepo, quote.ProfessionalID, models.NotificationQuoteAccepted,
		"Quote accepted",
		fmt.Sprintf("Your quote for '%s' was accepted.", job.Title),
		map[string]interface{}{"job_id": job.ID, "quote_id": quote.ID})

	for i := range siblings {
		sibling := &siblings[i]
		if sibling.ID == quote.ID || sibling.Status != models.QuoteStatusPending {
			continue
		}
		notify(db, s.notificationRepo, sibling.ProfessionalID, models.NotificationQuoteRejected,
			"Quote not selected",
			fmt.Sprintf("The client chose another quote for '%s'.", job.Title),
			map[string]interface{}{"job_id": job.ID, "quote_id": sibling.ID})
	}

	return nil
}

// WithdrawQuote retracts a pending quote.
func (s *QuoteServiceImpl) WithdrawQuote(db *gorm.DB, professionalID, quoteID string) error {
	rows, err := s.quoteRepo.Withdraw(db, quoteID, professionalID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if rows > 0 {
		return nil
	}

	quote, err := s.quoteRepo.FindByID(db, quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return apperrors.ErrQuoteNotFound
		}
		return apperrors.InternalError(err)
	}

	if quote.ProfessionalID != professionalID {
		return apperrors.ErrForbidden
	}

	return apperrors.ErrQuoteNotPending
}

func toQuoteResponse(quote *models.Quote) *dto.QuoteResponse {
	return &dto.QuoteResponse{
		ID:             quote.ID,
		JobID:          quote.JobID,
		ProfessionalID: quote.ProfessionalID,
		Price:          quote.Price,
		Message:        quote.Message,
		Status:         quote.Status,
		CreatedAt:      quote.CreatedAt,
		UpdatedAt:      quote.UpdatedAt,
	}
}
