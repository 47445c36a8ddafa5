package models

import (
	"github.com/google/uuid"
)

// Product is a pharmacy catalog entry. Field names follow the bulk
// import template columns so imported rows map onto it directly.
type Product struct {
	BaseModel
	PharmacyID *uuid.UUID `gorm:"type:uuid;index" json:"pharmacy_id"`

	Name         string `json:"name"`
	NameArabic   string `json:"name_arabic"`
	Category     string `gorm:"index" json:"category"`
	Subcategory  string `json:"subcategory"`
	Type         string `json:"type"` // prescription|otc|supplement|baby-product|cosmetic|hygiene-supply
	Manufacturer string `json:"manufacturer"`
	Brand        string `json:"brand"`
	BrandArabic  string `json:"brand_arabic"`

	KeyIngredient               string `json:"key_ingredient"`
	KeyIngredientArabic         string `json:"key_ingredient_arabic"`
	StrengthConcentration       string `json:"strength_concentration"`
	StrengthConcentrationArabic string `json:"strength_concentration_arabic"`
	Form                        string `json:"form"`
	FormArabic                  string `json:"form_arabic"`

	DescriptionShort          string `json:"description_short"`
	DescriptionDetailed       string `json:"description_detailed"`
	DescriptionArabicShort    string `json:"description_arabic_short"`
	DescriptionArabicDetailed string `json:"description_arabic_detailed"`
	UsesBenefits              string `json:"uses_benefits"`
	Warnings                  string `json:"warnings"`
	Precautions               string `json:"precautions"`

	PrescriptionRequired bool `json:"prescription_required"`

	PackSize           string `json:"pack_size"`
	PackSizeArabic     string `json:"pack_size_arabic"`
	Unit               string `json:"unit"`
	UnitArabic         string `json:"unit_arabic"`
	VolumeWeight       string `json:"volume_weight"`
	VolumeWeightArabic string `json:"volume_weight_arabic"`
	PillsPerBlister    string `json:"pills_per_blister"`
	BlistersPerBox     string `json:"blisters_per_box"`

	ImagePrimary      string  `json:"image_primary"`
	ImageSecondary    string  `json:"image_secondary"`
	TherapeuticClass  string  `json:"therapeutic_class"`
	PriceReference    float64 `json:"price_reference"`
	Currency          string  `gorm:"default:EGP" json:"currency"`
	PregnancyCategory string  `json:"pregnancy_category"`
}
