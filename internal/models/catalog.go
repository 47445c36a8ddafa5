package models

import "github.com/google/uuid"

// Category is a product taxonomy entry referenced by name from import rows.
type Category struct {
	BaseModel
	Slug       string `gorm:"uniqueIndex" json:"slug"`
	Name       string `json:"name"`
	NameArabic string `json:"name_arabic"`
}

// Governorate is a top-level delivery region.
type Governorate struct {
	BaseModel
	Name       string `gorm:"uniqueIndex" json:"name"`
	NameArabic string `json:"name_arabic"`
	Cities     []City `json:"cities,omitempty"`
}

// City belongs to a governorate.
type City struct {
	BaseModel
	GovernorateID uuid.UUID `gorm:"type:uuid;index" json:"governorate_id"`
	Name          string    `json:"name"`
	NameArabic    string    `json:"name_arabic"`
}
