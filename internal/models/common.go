package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CategoriesJSON packs a category list into the JSONB column format
// shared by jobs and professional profiles.
func CategoriesJSON(categories []string) (datatypes.JSON, error) {
	if categories == nil {
		categories = []string{}
	}
	b, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// CategoriesFromJSON unpacks the JSONB column back into a list. A
// malformed or empty value yields an empty list rather than an error.
func CategoriesFromJSON(data datatypes.JSON) []string {
	var categories []string
	if len(data) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(data, &categories); err != nil {
		return []string{}
	}
	return categories
}
