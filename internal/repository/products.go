package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/bulkimport"
	"github.com/example/dawaa/internal/models"
)

// ProductRepository persists catalog products.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs a ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ImportSink returns a bulkimport sink writing committed rows as
// products owned by the given pharmacy.
func (r *ProductRepository) ImportSink(pharmacyID uuid.UUID) bulkimport.Sink {
	return &productSink{db: r.db, pharmacyID: pharmacyID}
}

type productSink struct {
	db         *gorm.DB
	pharmacyID uuid.UUID
}

func (s *productSink) Save(ctx context.Context, fields map[string]string) error {
	product := productFromFields(s.pharmacyID, fields)
	return s.db.WithContext(ctx).Create(&product).Error
}

func productFromFields(pharmacyID uuid.UUID, fields map[string]string) models.Product {
	price, _ := strconv.ParseFloat(strings.TrimSpace(fields["Price_Reference"]), 64)
	if price < 0 {
		price = 0
	}

	currency := strings.ToUpper(strings.TrimSpace(fields["Currency"]))
	if currency == "" {
		currency = "EGP"
	}

	required := false
	switch strings.ToLower(strings.TrimSpace(fields["Prescription_Required"])) {
	case "true", "1", "yes":
		required = true
	}

	return models.Product{
		PharmacyID: &pharmacyID,

		Name:         fields["Name"],
		NameArabic:   fields["Name_Arabic"],
		Category:     fields["Category"],
		Subcategory:  fields["Subcategory"],
		Type:         strings.ToLower(strings.TrimSpace(fields["Type"])),
		Manufacturer: fields["Manufacturer"],
		Brand:        fields["Brand"],
		BrandArabic:  fields["Brand_Arabic"],

		KeyIngredient:               fields["Key_Ingredient"],
		KeyIngredientArabic:         fields["Key_Ingredient_Arabic"],
		StrengthConcentration:       fields["Strength_Concentration"],
		StrengthConcentrationArabic: fields["Strength_Concentration_Arabic"],
		Form:                        fields["Form"],
		FormArabic:                  fields["Form_Arabic"],

		DescriptionShort:          fields["Description_Short"],
		DescriptionDetailed:       fields["Description_Detailed"],
		DescriptionArabicShort:    fields["Description_Arabic_Short"],
		DescriptionArabicDetailed: fields["Description_Arabic_Detailed"],
		UsesBenefits:              fields["Uses_Benefits"],
		Warnings:                  fields["Warnings"],
		Precautions:               fields["Precautions"],

		PrescriptionRequired: required,

		PackSize:           fields["Pack_Size"],
		PackSizeArabic:     fields["Pack_Size_Arabic"],
		Unit:               fields["Unit"],
		UnitArabic:         fields["Unit_Arabic"],
		VolumeWeight:       fields["Volume_Weight"],
		VolumeWeightArabic: fields["Volume_Weight_Arabic"],
		PillsPerBlister:    fields["Pills_Per_Blister"],
		BlistersPerBox:     fields["Blisters_Per_Box"],

		ImagePrimary:      fields["Image_Primary"],
		ImageSecondary:    fields["Image_Secondary"],
		TherapeuticClass:  fields["Therapeutic_Class"],
		PriceReference:    price,
		Currency:          currency,
		PregnancyCategory: fields["Pregnancy_Category"],
	}
}
