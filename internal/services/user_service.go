package services

import (
	"fixer_backend/internal/auth"
	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error)
	ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.UserListResponse, error)
	ApproveProfessional(db *gorm.DB, userID string) error
	UpdateUserStatus(db *gorm.DB, adminID, userID string, req *dto.UpdateUserStatusRequest) error
	GetRegistrationStats(db *gorm.DB) (*dto.RegistrationStatsResponse, error)
	AdminCreateUser(db *gorm.DB, req *dto.AdminCreateUserRequest) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notificationRepo repositories.NotificationRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notificationRepo repositories.NotificationRepository,
) UserService {
	return &UserServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		Status:     user.Status,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}

	switch user.Role {
	case models.UserRoleProfessional:
		if user.ProfessionalProfile != nil {
			p := user.ProfessionalProfile
			resp.Profile = dto.ProfessionalProfileResponse{
				UserID:          p.UserID,
				DisplayName:     p.DisplayName,
				City:            p.City,
				Bio:             p.Bio,
				Categories:      models.CategoriesFromJSON(p.Categories),
				YearsExperience: p.YearsExperience,
				IsApproved:      p.IsApproved,
				RatingAvg:       p.RatingAvg,
				RatingCount:     p.RatingCount,
			}
		}
	case models.UserRoleClient:
		if user.ClientProfile != nil {
			p := user.ClientProfile
			resp.Profile = dto.ClientProfileResponse{
				UserID:      p.UserID,
				DisplayName: p.DisplayName,
				City:        p.City,
			}
		}
	}

	return resp, nil
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.UserListResponse, error) {
	page, pageSize := normalizePagination(filter.Page, filter.PageSize)

	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:       filter.Role,
		Status:     filter.Status,
		IsVerified: filter.IsVerified,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
		Search:     filter.Search,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserListResponse{
		Users:    make([]dto.UserDTO, 0, len(users)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserDTO(&users[i]))
	}
	return resp, nil
}

// ApproveProfessional unlocks quoting for a professional account.
func (s *UserServiceImpl) ApproveProfessional(db *gorm.DB, userID string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.Role != models.UserRoleProfessional {
		return apperrors.NewBadRequestError("Only professional accounts can be approved")
	}

	if err := s.profileRepo.SetApproved(db, userID, true); err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return apperrors.InternalError(err)
	}

	notify(db, s.notificationRepo, userID, models.NotificationAccountStatus,
		"Account approved", "Your professional account was approved. You can now submit quotes.",
		nil)

	return nil
}

// UpdateUserStatus changes an account's standing. Suspending or banning
// also revokes every open session. Admins cannot change their own
// status.
func (s *UserServiceImpl) UpdateUserStatus(db *gorm.DB, adminID, userID string, req *dto.UpdateUserStatusRequest) error {
	if adminID == userID {
		return apperrors.NewBadRequestError("Cannot change your own account status")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateStatus(tx, userID, req.Status); err != nil {
			return apperrors.InternalError(err)
		}

		if req.Status == models.UserStatusSuspended || req.Status == models.UserStatusBanned {
			if err := s.refreshTokenRepo.DeleteByUserID(tx, userID); err != nil {
				return apperrors.InternalError(err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	message := "Your account status changed to " + string(req.Status) + "."
	if req.Reason != "" {
		message += " Reason: " + req.Reason
	}
	notify(db, s.notificationRepo, user.ID, models.NotificationAccountStatus,
		"Account status updated", message, nil)

	return nil
}

func (s *UserServiceImpl) GetRegistrationStats(db *gorm.DB) (*dto.RegistrationStatsResponse, error) {
	stats, err := s.userRepo.GetRegistrationStats(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.RegistrationStatsResponse{
		Total:           stats.Total,
		Today:           stats.Today,
		ThisWeek:        stats.ThisWeek,
		ThisMonth:       stats.ThisMonth,
		ByRole:          stats.ByRole,
		VerifiedCount:   stats.VerifiedCount,
		UnverifiedCount: stats.UnverifiedCount,
	}, nil
}

// AdminCreateUser provisions an account that skips the verification
// flow entirely: it is born verified and active.
func (s *UserServiceImpl) AdminCreateUser(db *gorm.DB, req *dto.AdminCreateUserRequest) (*dto.UserDTO, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
				return apperrors.ErrEmailAlreadyExists
			}
			return apperrors.InternalError(err)
		}

		displayName := req.FirstName + " " + req.LastName
		switch req.Role {
		case models.UserRoleProfessional:
			categories, err := models.CategoriesJSON(nil)
			if err != nil {
				return apperrors.InternalError(err)
			}
			return s.profileRepo.CreateProfessionalProfile(tx, &models.ProfessionalProfile{
				UserID:      user.ID,
				DisplayName: displayName,
				Categories:  categories,
			})
		case models.UserRoleClient:
			return s.profileRepo.CreateClientProfile(tx, &models.ClientProfile{
				UserID:      user.ID,
				DisplayName: displayName,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := dto.NewUserDTO(user)
	return &result, nil
}
