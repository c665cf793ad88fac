package services

import (
	"fmt"

	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(db *gorm.DB, clientID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListProfessionalReviews(db *gorm.DB, professionalID string, page, pageSize int) (*dto.ReviewListResponse, error)
	ListPendingReviews(db *gorm.DB, page, pageSize int) (*dto.ReviewListResponse, error)
	ModerateReview(db *gorm.DB, reviewID string, status models.ReviewStatus) error
}

type ReviewServiceImpl struct {
	reviewRepo       repositories.ReviewRepository
	userRepo         repositories.UserRepository
	jobRepo          repositories.JobRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:       reviewRepo,
		userRepo:         userRepo,
		jobRepo:          jobRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
	}
}

// CreateReview files a review awaiting moderation. A job-linked review
// requires the job to be this client's, assigned to this professional,
// and completed; one review per job.
func (s *ReviewServiceImpl) CreateReview(db *gorm.DB, clientID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	professional, err := s.userRepo.FindByID(db, req.ProfessionalID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if professional.Role != models.UserRoleProfessional {
		return nil, apperrors.NewBadRequestError("Reviews can only be left for professionals")
	}

	if req.JobID != nil {
		job, err := s.jobRepo.FindByID(db, *req.JobID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrJobNotFound) {
				return nil, apperrors.ErrJobNotFound
			}
			return nil, apperrors.InternalError(err)
		}
		if job.ClientID != clientID {
			return nil, apperrors.ErrForbidden
		}
		if job.Status != models.JobStatusCompleted {
			return nil, apperrors.ErrJobNotCompleted
		}
		if job.AssignedProID == nil || *job.AssignedProID != req.ProfessionalID {
			return nil, apperrors.NewBadRequestError("Job was not performed by this professional")
		}
	}

	review := &models.Review{
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		JobID:          req.JobID,
		Rating:         req.Rating,
		ReviewText:     req.ReviewText,
		Status:         models.ReviewStatusPending,
	}

	if err := s.reviewRepo.Create(db, review); err != nil {
		if apperrors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.ErrReviewAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return toReviewResponse(review), nil
}

// ListProfessionalReviews returns only moderated-approved reviews.
func (s *ReviewServiceImpl) ListProfessionalReviews(db *gorm.DB, professionalID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := s.reviewRepo.FindApprovedByProfessional(db, professionalID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return toReviewListResponse(reviews, total, page, pageSize), nil
}

func (s *ReviewServiceImpl) ListPendingReviews(db *gorm.DB, page, pageSize int) (*dto.ReviewListResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := s.reviewRepo.FindByStatus(db, models.ReviewStatusPending, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return toReviewListResponse(reviews, total, page, pageSize), nil
}

// ModerateReview approves or rejects a pending review. Approval feeds
// the professional's rating aggregate and notifies them.
func (s *ReviewServiceImpl) ModerateReview(db *gorm.DB, reviewID string, status models.ReviewStatus) error {
	if status != models.ReviewStatusApproved && status != models.ReviewStatusRejected {
		return apperrors.NewBadRequestError("Moderation status must be approved or rejected")
	}

	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrReviewNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := s.reviewRepo.UpdateStatus(db, reviewID, status); err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrReviewNotFound
		}
		return apperrors.InternalError(err)
	}

	if status != models.ReviewStatusApproved {
		return nil
	}

	avg, count, err := s.reviewRepo.AggregateRating(db, review.ProfessionalID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.profileRepo.UpdateRating(db, review.ProfessionalID, avg, count); err != nil {
		if !apperrors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.InternalError(err)
		}
	}

	notify(db, s.notificationRepo, review.ProfessionalID, models.NotificationReviewReceived,
		"New review published",
		fmt.Sprintf("A client rated you %d/5.", review.Rating),
		map[string]interface{}{"review_id": review.ID})

	return nil
}

func toReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:             review.ID,
		ClientID:       review.ClientID,
		ProfessionalID: review.ProfessionalID,
		JobID:          review.JobID,
		Rating:         review.Rating,
		ReviewText:     review.ReviewText,
		Status:         review.Status,
		CreatedAt:      review.CreatedAt,
	}
}

func toReviewListResponse(reviews []models.Review, total int64, page, pageSize int) *dto.ReviewListResponse {
	resp := &dto.ReviewListResponse{
		Reviews:  make([]dto.ReviewResponse, 0, len(reviews)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, *toReviewResponse(&reviews[i]))
	}
	return resp
}
