package models

// Quote is a professional's offer on a job. One quote per professional
// per job, enforced by the composite unique index.
type Quote struct {
	BaseModel
	JobID          string  `gorm:"not null;index;uniqueIndex:idx_quote_job_pro"`
	ProfessionalID string  `gorm:"not null;index;uniqueIndex:idx_quote_job_pro"`
	Price          float64 `gorm:"not null"`
	Message        string
	Status         QuoteStatus `gorm:"type:varchar(20);default:'pending';index"`
}
