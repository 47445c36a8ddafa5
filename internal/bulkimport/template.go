package bulkimport

import "strings"

// TemplateColumns is the canonical header of the product import sheet,
// in order. Headers outside this set are ignored with a warning.
var TemplateColumns = []string{
	"Name", "Name_Arabic", "Category", "Subcategory", "Type",
	"Manufacturer", "Brand", "Brand_Arabic",
	"Key_Ingredient", "Key_Ingredient_Arabic",
	"Strength_Concentration", "Strength_Concentration_Arabic",
	"Form", "Form_Arabic",
	"Description_Short", "Description_Detailed",
	"Description_Arabic_Short", "Description_Arabic_Detailed",
	"Uses_Benefits", "Warnings", "Precautions",
	"Prescription_Required",
	"Pack_Size", "Pack_Size_Arabic", "Unit", "Unit_Arabic",
	"Volume_Weight", "Volume_Weight_Arabic",
	"Pills_Per_Blister", "Pills_Per_Blister_Arabic",
	"Blisters_Per_Box", "Blisters_Per_Box_Arabic",
	"Image_Primary", "Image_Secondary",
	"Therapeutic_Class", "Price_Reference", "Currency",
	"Pregnancy_Category",
}

// RequiredColumns must all be present for the file to be importable.
var RequiredColumns = []string{"Name", "Name_Arabic", "Category", "Type", "Manufacturer"}

// RecommendedColumns are optional but flagged when absent.
var RecommendedColumns = []string{
	"Brand", "Description_Short", "Description_Arabic_Short",
	"Prescription_Required", "Pack_Size", "Unit",
	"Image_Primary", "Price_Reference",
}

// EnhancedColumns drive the template-completeness hint.
var EnhancedColumns = []string{
	"Key_Ingredient", "Strength_Concentration", "Form",
	"Uses_Benefits", "Warnings", "Precautions",
	"Volume_Weight", "Pills_Per_Blister", "Blisters_Per_Box",
	"Therapeutic_Class", "Pregnancy_Category",
}

// nonPrescriptionTypes are product types that can never require a
// prescription; combining them with a truthy Prescription_Required is a
// hard conflict.
var nonPrescriptionTypes = map[string]bool{
	"supplement":     true,
	"baby-product":   true,
	"cosmetic":       true,
	"hygiene-supply": true,
}

// knownCategories holds normalized category names the taxonomy
// currently recognizes. Unknown values only warn since the taxonomy
// evolves.
var knownCategories = map[string]bool{
	"medicines":       true,
	"medicine":        true,
	"babycare":        true,
	"baby":            true,
	"skincare":        true,
	"haircare":        true,
	"vitamins":        true,
	"supplements":     true,
	"cosmetics":       true,
	"personalcare":    true,
	"dentalcare":      true,
	"firstaid":        true,
	"medicalsupplies": true,
	"mothercare":      true,
}

// supportedCurrencies lists accepted Currency values (upper-cased).
var supportedCurrencies = map[string]bool{
	"EGP": true, "USD": true, "EUR": true, "SAR": true, "AED": true,
	"KWD": true, "QAR": true, "BHD": true, "OMR": true,
}

// acceptedBooleans are the recognized spellings of a boolean cell.
var acceptedBooleans = map[string]bool{
	"true": true, "false": true, "1": true, "0": true,
	"yes": true, "no": true, "n/a": true,
}

var templateColumnSet = func() map[string]bool {
	set := make(map[string]bool, len(TemplateColumns))
	for _, col := range TemplateColumns {
		set[col] = true
	}
	return set
}()

// normalizeCategory lower-cases a category value and strips hyphens,
// underscores and spaces so "Baby-Care", "baby_care" and "Baby Care"
// compare equal.
func normalizeCategory(value string) string {
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(value)))
}

// isTruthy reports whether a boolean-like cell affirms the flag.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// isBlank treats empty and N/A-equivalent cells as absent for the
// advisory checks.
func isBlank(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.EqualFold(trimmed, "n/a")
}
