package validator

import (
	"log"

	"fixer_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the domain status/role rules. A rule
// that fails to register is a startup error, not something to limp
// past.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-user-status", validateUserStatus)
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-quote-status", validateQuoteStatus)
	mustRegister("is-review-status", validateReviewStatus)
}

// Empty values pass: 'required' is the tag responsible for presence.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleClient, models.UserRoleProfessional, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateUserStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserStatus(value) {
	case models.UserStatusPending, models.UserStatusActive, models.UserStatusSuspended, models.UserStatusBanned:
		return true
	default:
		return false
	}
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.JobStatus(value) {
	case models.JobStatusOpen, models.JobStatusQuoted, models.JobStatusAssigned,
		models.JobStatusCompleted, models.JobStatusCancelled, models.JobStatusExpired:
		return true
	default:
		return false
	}
}

func validateQuoteStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.QuoteStatus(value) {
	case models.QuoteStatusPending, models.QuoteStatusAccepted,
		models.QuoteStatusRejected, models.QuoteStatusWithdrawn:
		return true
	default:
		return false
	}
}

func validateReviewStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ReviewStatus(value) {
	case models.ReviewStatusPending, models.ReviewStatusApproved, models.ReviewStatusRejected:
		return true
	default:
		return false
	}
}
