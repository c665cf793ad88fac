package handlers

import (
	"fixer_backend/internal/services"
	"fixer_backend/internal/validator"
)

// AppHandlers holds every HTTP handler, wired once at startup.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ProfileHandler      *ProfileHandler
	JobHandler          *JobHandler
	QuoteHandler        *QuoteHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, container.AuthService),
		UserHandler:         NewUserHandler(base, container.UserService),
		ProfileHandler:      NewProfileHandler(base, container.ProfileService),
		JobHandler:          NewJobHandler(base, container.JobService),
		QuoteHandler:        NewQuoteHandler(base, container.QuoteService),
		ReviewHandler:       NewReviewHandler(base, container.ReviewService),
		NotificationHandler: NewNotificationHandler(base, container.NotificationService),
	}
}
