package services

import (
	"time"

	"fixer_backend/internal/auth"
	"fixer_backend/internal/config"
	"fixer_backend/internal/email"
	"fixer_backend/internal/logger"
	"fixer_backend/internal/models"
	"fixer_backend/internal/repositories"
	"fixer_backend/internal/services/dto"
	"fixer_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	refreshTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL   = time.Hour

	// DeliveryStatus values reported back after registration.
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) error
	ResendVerification(db *gorm.DB, emailAddr string) error
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	RequestPasswordReset(db *gorm.DB, emailAddr string) error
	ResetPassword(db *gorm.DB, token, newPassword string) error
	ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
	}
}

// Register creates a pending, unverified account with its role profile
// and mails a verification proof. The account survives a failed mail
// dispatch: the proof is already persisted and can be re-sent, so the
// caller gets delivery="failed" instead of a rolled back registration.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Role != models.UserRoleClient && req.Role != models.UserRoleProfessional {
		return nil, apperrors.ErrInvalidUserRole
	}

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
		Status:       models.UserStatusPending,
		IsVerified:   false,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
				return apperrors.ErrEmailAlreadyExists
			}
			return apperrors.InternalError(err)
		}

		return s.createProfile(tx, user, req)
	})
	if err != nil {
		return nil, err
	}

	delivery := s.issueAndDispatchProof(db, user)

	return &dto.RegisterResponse{
		User:     dto.NewUserDTO(user),
		Delivery: delivery,
	}, nil
}

func (s *AuthServiceImpl) createProfile(tx *gorm.DB, user *models.User, req *dto.RegisterRequest) error {
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.FirstName + " " + req.LastName
	}

	switch user.Role {
	case models.UserRoleProfessional:
		categories, err := models.CategoriesJSON(req.Categories)
		if err != nil {
			return apperrors.InternalError(err)
		}
		profile := &models.ProfessionalProfile{
			UserID:          user.ID,
			DisplayName:     displayName,
			City:            req.City,
			Bio:             req.Bio,
			Categories:      categories,
			YearsExperience: req.YearsExperience,
		}
		if err := s.profileRepo.CreateProfessionalProfile(tx, profile); err != nil {
			return apperrors.InternalError(err)
		}
	case models.UserRoleClient:
		profile := &models.ClientProfile{
			UserID:      user.ID,
			DisplayName: displayName,
			City:        req.City,
		}
		if err := s.profileRepo.CreateClientProfile(tx, profile); err != nil {
			return apperrors.InternalError(err)
		}
	}

	return nil
}

// issueAndDispatchProof generates the configured proof kind, persists
// it, then mails it. Persist-before-dispatch: a proof that was never
// stored must never reach a mailbox.
func (s *AuthServiceImpl) issueAndDispatchProof(db *gorm.DB, user *models.User) string {
	cfg := config.GetConfig()

	var proof auth.Proof
	var err error

	switch cfg.Verification.Mode {
	case config.VerificationModeToken:
		proof, err = auth.NewTokenProof(user.Email, time.Duration(cfg.Verification.TokenTTLHours)*time.Hour)
	default:
		proof, err = auth.NewCodeProof(time.Duration(cfg.Verification.CodeTTLMinutes) * time.Minute)
	}
	if err != nil {
		logger.Error("failed to generate verification proof", "user_id", user.ID, "error", err)
		return DeliveryFailed
	}

	switch proof.Kind {
	case auth.ProofKindToken:
		err = s.userRepo.SetVerificationProof(db, user.ID, proof.Value, "", nil)
	default:
		expiresAt := proof.ExpiresAt
		err = s.userRepo.SetVerificationProof(db, user.ID, "", proof.Value, &expiresAt)
	}
	if err != nil {
		logger.Error("failed to persist verification proof", "user_id", user.ID, "error", err)
		return DeliveryFailed
	}

	switch proof.Kind {
	case auth.ProofKindToken:
		link := cfg.Server.PublicURL + "/verify-email?token=" + proof.Value
		err = s.emailProvider.SendVerificationLink(user.Email, link)
	default:
		err = s.emailProvider.SendVerificationCode(user.Email, proof.Value)
	}
	if err != nil {
		logger.Warn("verification email dispatch failed", "user_id", user.ID, "error", err)
		return DeliveryFailed
	}

	return DeliverySent
}

// VerifyEmail consumes a proof and activates the account. The proof is
// checked and cleared in one conditional UPDATE so concurrent attempts
// cannot both succeed; a zero-row result is disambiguated by re-reading
// the account.
func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) error {
	if req.Token != "" {
		return s.verifyByToken(db, req.Token)
	}
	if req.Email == "" || req.Code == "" {
		return apperrors.ValidationError(map[string]string{
			"code": "Provide either a token or an email with its code",
		})
	}
	return s.verifyByCode(db, req.Email, req.Code)
}

func (s *AuthServiceImpl) verifyByCode(db *gorm.DB, emailAddr, code string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	rows, err := s.userRepo.ConsumeVerificationCode(db, user.ID, code, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if rows > 0 {
		return nil
	}

	// The conditional UPDATE matched nothing. Re-read to tell a lost
	// race, a wrong code, and an expired code apart.
	current, err := s.userRepo.FindByID(db, user.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if current.IsVerified {
		return apperrors.ErrAlreadyVerified
	}
	if current.VerificationCode == "" || current.VerificationCode != code {
		return apperrors.ErrInvalidProof
	}
	if current.CodeExpiresAt == nil || !current.CodeExpiresAt.After(time.Now()) {
		return apperrors.ErrProofExpired
	}

	return apperrors.ErrInvalidProof
}

func (s *AuthServiceImpl) verifyByToken(db *gorm.DB, token string) error {
	emailAddr, err := auth.ParseVerificationToken(token)
	if err != nil {
		if apperrors.Is(err, auth.ErrTokenExpired) {
			return apperrors.ErrProofExpired
		}
		return apperrors.ErrInvalidProof
	}

	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	rows, err := s.userRepo.ConsumeVerificationToken(db, user.ID, token)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if rows > 0 {
		return nil
	}

	current, err := s.userRepo.FindByID(db, user.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if current.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	// A newer token was issued since this one went out.
	return apperrors.ErrInvalidProof
}

// ResendVerification mints a fresh proof for an unverified account,
// invalidating whatever was sent before.
func (s *AuthServiceImpl) ResendVerification(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	if s.issueAndDispatchProof(db, user) == DeliveryFailed {
		return apperrors.ErrDispatchFailure
	}

	return nil
}

// Login authenticates a verified account and opens a session: a signed
// access token plus an opaque rotating refresh token.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	switch user.Status {
	case models.UserStatusBanned:
		return nil, apperrors.ErrUserBanned
	case models.UserStatusSuspended:
		return nil, apperrors.ErrUserSuspended
	}

	// The verification state is reported before the password is
	// checked: an unverified account always gets NotVerified.
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.openSession(db, user)
}

func (s *AuthServiceImpl) openSession(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(db, refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         dto.NewUserDTO(user),
	}, nil
}

// RefreshToken rotates a refresh token: the presented token is retired
// and a new pair is issued.
func (s *AuthServiceImpl) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.refreshTokenRepo.FindByToken(db, refreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(db, refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	switch user.Status {
	case models.UserStatusBanned:
		return nil, apperrors.ErrUserBanned
	case models.UserStatusSuspended:
		return nil, apperrors.ErrUserSuspended
	}

	var resp *dto.AuthResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
			return apperrors.InternalError(err)
		}
		resp, err = s.openSession(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Logout retires a refresh token. Unknown tokens are a no-op so repeat
// logouts stay idempotent.
func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.DeleteByToken(db, refreshToken)
	if err != nil && !apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

// RequestPasswordReset mails a reset link when the address is known.
// Unknown addresses succeed silently so the endpoint cannot be used to
// enumerate accounts.
func (s *AuthServiceImpl) RequestPasswordReset(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	exp := time.Now().Add(resetTokenTTL)
	user.ResetToken = uuid.NewString()
	user.ResetTokenExp = &exp

	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	link := cfg.Server.PublicURL + "/reset-password?token=" + user.ResetToken
	if err := s.emailProvider.SendPasswordReset(user.Email, link); err != nil {
		logger.Warn("password reset email dispatch failed", "user_id", user.ID, "error", err)
	}

	return nil
}

// ResetPassword sets a new password for the account holding an
// unexpired reset token, then revokes all open sessions.
func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByResetToken(db, token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdatePasswordHash(tx, user.ID, hash); err != nil {
			return apperrors.InternalError(err)
		}

		user.ResetToken = ""
		user.ResetTokenExp = nil
		if err := s.userRepo.Update(tx, user); err != nil {
			return apperrors.InternalError(err)
		}

		if err := s.refreshTokenRepo.DeleteByUserID(tx, user.ID); err != nil {
			return apperrors.InternalError(err)
		}

		return nil
	})
}

// ChangePassword replaces the password after re-checking the current
// one. A wrong current password leaves the stored hash untouched.
func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePasswordHash(db, user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	return nil
}
