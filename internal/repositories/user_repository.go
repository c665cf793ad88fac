package repositories

import (
	"errors"
	"time"

	"fixer_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)
	FindByResetToken(db *gorm.DB, token string) (*models.User, error)
	Update(db *gorm.DB, user *models.User) error
	UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error
	UpdatePasswordHash(db *gorm.DB, userID, passwordHash string) error
	SetVerificationProof(db *gorm.DB, userID, token, code string, codeExpiresAt *time.Time) error

	// ConsumeVerificationCode flips the account to verified and clears the
	// proof fields in a single conditional UPDATE keyed on the matching,
	// unexpired code. Returns the number of rows affected: 0 means the
	// attempt lost a race or the code was wrong/expired.
	ConsumeVerificationCode(db *gorm.DB, userID, code string, now time.Time) (int64, error)

	// ConsumeVerificationToken is the token-flow counterpart; expiry is
	// enforced by the token signature before this is called.
	ConsumeVerificationToken(db *gorm.DB, userID, token string) (int64, error)

	Delete(db *gorm.DB, userID string) error

	// Admin operations
	FindWithFilter(db *gorm.DB, criteria UserFilter) ([]models.User, int64, error)
	GetRegistrationStats(db *gorm.DB) (*RegistrationStats, error)
}

type UserFilter struct {
	Role       models.UserRole
	Status     models.UserStatus
	IsVerified *bool
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string
	Page       int
	PageSize   int
}

type RegistrationStats struct {
	Total           int64            `json:"total"`
	Today           int64            `json:"today"`
	ThisWeek        int64            `json:"this_week"`
	ThisMonth       int64            `json:"this_month"`
	ByRole          map[string]int64 `json:"by_role"`
	VerifiedCount   int64            `json:"verified_count"`
	UnverifiedCount int64            `json:"unverified_count"`
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	// Pre-check for a friendlier error; the unique index on email is the
	// real guarantee against concurrent duplicates.
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Preload("ProfessionalProfile").Preload("ClientProfile").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Preload("ProfessionalProfile").Preload("ClientProfile").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where("verification_token = ? AND verification_token != ''", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where("reset_token = ? AND reset_token_exp > ?", token, time.Now()).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	result := db.Model(user).Updates(map[string]interface{}{
		"email":              user.Email,
		"first_name":         user.FirstName,
		"last_name":          user.LastName,
		"role":               user.Role,
		"status":             user.Status,
		"is_verified":        user.IsVerified,
		"verification_token": user.VerificationToken,
		"verification_code":  user.VerificationCode,
		"code_expires_at":    user.CodeExpiresAt,
		"reset_token":        user.ResetToken,
		"reset_token_exp":    user.ResetTokenExp,
		"updated_at":         time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePasswordHash(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetVerificationProof(db *gorm.DB, userID, token, code string, codeExpiresAt *time.Time) error {
	result := db.Model(&models.User{}).Where("id = ? AND is_verified = false", userID).Updates(map[string]interface{}{
		"verification_token": token,
		"verification_code":  code,
		"code_expires_at":    codeExpiresAt,
		"updated_at":         time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ConsumeVerificationCode(db *gorm.DB, userID, code string, now time.Time) (int64, error) {
	result := db.Model(&models.User{}).
		Where("id = ? AND is_verified = false AND verification_code = ? AND code_expires_at > ?", userID, code, now).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"status":             models.UserStatusActive,
			"verification_token": "",
			"verification_code":  "",
			"code_expires_at":    nil,
			"updated_at":         now,
		})

	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) ConsumeVerificationToken(db *gorm.DB, userID, token string) (int64, error) {
	now := time.Now()
	result := db.Model(&models.User{}).
		Where("id = ? AND is_verified = false AND verification_token = ?", userID, token).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"status":             models.UserStatusActive,
			"verification_token": "",
			"verification_code":  "",
			"code_expires_at":    nil,
			"updated_at":         now,
		})

	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// Admin operations

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, criteria UserFilter) ([]models.User, int64, error) {
	var users []models.User
	query := db.Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.IsVerified != nil {
		query = query.Where("is_verified = ?", *criteria.IsVerified)
	}
	if criteria.DateFrom != nil {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}
	if criteria.DateTo != nil {
		query = query.Where("created_at <= ?", criteria.DateTo)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("ProfessionalProfile").Preload("ClientProfile").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error

	return users, total, err
}

func (r *UserRepositoryImpl) GetRegistrationStats(db *gorm.DB) (*RegistrationStats, error) {
	var stats RegistrationStats
	now := time.Now()

	if err := db.Model(&models.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.User{}).Where("created_at >= ?", todayStart).Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	weekStart := todayStart.AddDate(0, 0, -int(todayStart.Weekday()))
	if err := db.Model(&models.User{}).Where("created_at >= ?", weekStart).Count(&stats.ThisWeek).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.ThisMonth).Error; err != nil {
		return nil, err
	}

	stats.ByRole = make(map[string]int64)
	roles := []models.UserRole{models.UserRoleClient, models.UserRoleProfessional, models.UserRoleAdmin}
	for _, role := range roles {
		var count int64
		if err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.ByRole[string(role)] = count
	}

	if err := db.Model(&models.User{}).Where("is_verified = ?", true).Count(&stats.VerifiedCount).Error; err != nil {
		return nil, err
	}
	stats.UnverifiedCount = stats.Total - stats.VerifiedCount

	return &stats, nil
}
