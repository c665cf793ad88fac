package dto

type UpdateProfessionalProfileRequest struct {
	DisplayName     *string  `json:"display_name,omitempty" validate:"omitempty,min=1,max=150"`
	City            *string  `json:"city,omitempty"`
	Bio             *string  `json:"bio,omitempty" validate:"omitempty,max=5000"`
	Categories      []string `json:"categories,omitempty" validate:"omitempty,min=1,dive,min=2"`
	YearsExperience *int     `json:"years_experience,omitempty" validate:"omitempty,min=0,max=80"`
}

type UpdateClientProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=150"`
	City        *string `json:"city,omitempty"`
}

type ProfessionalProfileResponse struct {
	UserID          string   `json:"user_id"`
	DisplayName     string   `json:"display_name"`
	City            string   `json:"city"`
	Bio             string   `json:"bio,omitempty"`
	Categories      []string `json:"categories"`
	YearsExperience int      `json:"years_experience"`
	IsApproved      bool     `json:"is_approved"`
	RatingAvg       float64  `json:"rating_avg"`
	RatingCount     int      `json:"rating_count"`
}

type ClientProfileResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city"`
}
