package services

import (
	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfessionalProfile(db *gorm.DB, userID string) (*dto.ProfessionalProfileResponse, error)
	UpdateProfessionalProfile(db *gorm.DB, userID string, req *dto.UpdateProfessionalProfileRequest) (*dto.ProfessionalProfileResponse, error)
	UpdateClientProfile(db *gorm.DB, userID string, req *dto.UpdateClientProfileRequest) (*dto.ClientProfileResponse, error)
}

type ProfileServiceImpl struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) ProfileService {
	return &ProfileServiceImpl{profileRepo: profileRepo}
}

// GetProfessionalProfile is the public professional card.
func (s *ProfileServiceImpl) GetProfessionalProfile(db *gorm.DB, userID string) (*dto.ProfessionalProfileResponse, error) {
	profile, err := s.profileRepo.FindProfessionalByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return toProfessionalProfileResponse(profile), nil
}

func (s *ProfileServiceImpl) UpdateProfessionalProfile(db *gorm.DB, userID string, req *dto.UpdateProfessionalProfileRequest) (*dto.ProfessionalProfileResponse, error) {
	profile, err := s.profileRepo.FindProfessionalByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Categories != nil {
		categories, err := models.CategoriesJSON(req.Categories)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		profile.Categories = categories
	}
	if req.YearsExperience != nil {
		profile.YearsExperience = *req.YearsExperience
	}

	if err := s.profileRepo.UpdateProfessionalProfile(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return toProfessionalProfileResponse(profile), nil
}

func (s *ProfileServiceImpl) UpdateClientProfile(db *gorm.DB, userID string, req *dto.UpdateClientProfileRequest) (*dto.ClientProfileResponse, error) {
	profile, err := s.profileRepo.FindClientByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.City != nil {
		profile.City = *req.City
	}

	if err := s.profileRepo.UpdateClientProfile(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ClientProfileResponse{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		City:        profile.City,
	}, nil
}

func toProfessionalProfileResponse(profile *models.ProfessionalProfile) *dto.ProfessionalProfileResponse {
	return &dto.ProfessionalProfileResponse{
		UserID:          profile.UserID,
		DisplayName:     profile.DisplayName,
		City:            profile.City,
		Bio:             profile.Bio,
		Categories:      models.CategoriesFromJSON(profile.Categories),
		YearsExperience: profile.YearsExperience,
		IsApproved:      profile.IsApproved,
		RatingAvg:       profile.RatingAvg,
		RatingCount:     profile.RatingCount,
	}
}
