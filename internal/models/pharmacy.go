package models

// Pharmacy is a registered pharmacy fulfilling customer orders.
type Pharmacy struct {
	BaseModel
	Name          string `json:"name"`
	NameArabic    string `json:"name_arabic"`
	Phone         string `json:"phone"`
	LicenseNumber string `gorm:"uniqueIndex" json:"license_number"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Governorate   string `json:"governorate"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}
