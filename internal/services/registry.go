package services

import (
	"fixer_backend/internal/email"
	"fixer_backend/internal/repositories"
)

// ServiceContainer holds every application service, wired once at
// startup.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ProfileService      ProfileService
	JobService          JobService
	QuoteService        QuoteService
	ReviewService       ReviewService
	NotificationService NotificationService
	EmailProvider       email.Provider
}

func NewServiceContainer(emailProvider email.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	jobRepo := repositories.NewJobRepository()
	quoteRepo := repositories.NewQuoteRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, profileRepo, refreshTokenRepo, emailProvider),
		UserService:         NewUserService(userRepo, profileRepo, refreshTokenRepo, notificationRepo),
		ProfileService:      NewProfileService(profileRepo),
		JobService:          NewJobService(jobRepo, quoteRepo, notificationRepo),
		QuoteService:        NewQuoteService(quoteRepo, jobRepo, profileRepo, notificationRepo),
		ReviewService:       NewReviewService(reviewRepo, userRepo, jobRepo, profileRepo, notificationRepo),
		NotificationService: NewNotificationService(notificationRepo),
		EmailProvider:       emailProvider,
	}
}
