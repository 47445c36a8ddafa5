package bulkimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validFields is a full-enough row to pass with no warnings at all.
func validFields() map[string]string {
	return map[string]string{
		"Name":                     "Shampoo Plus",
		"Name_Arabic":              "شامبو بلس",
		"Category":                 "Haircare",
		"Type":                     "otc",
		"Manufacturer":             "CarePharm",
		"Brand":                    "CarePlus",
		"Description_Short":        "Daily shampoo",
		"Description_Arabic_Short": "شامبو يومي",
		"Prescription_Required":    "false",
		"Currency":                 "EGP",
	}
}

func TestValidateProductValidRow(t *testing.T) {
	row := ValidateProduct(validFields(), 2)

	assert.Equal(t, RowValid, row.Status)
	assert.Empty(t, row.Error)
	assert.Empty(t, row.Warnings)
	assert.Equal(t, 2, row.RowNumber)
}

func TestValidateProductMissingManufacturer(t *testing.T) {
	fields := validFields()
	fields["Manufacturer"] = ""

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowError, row.Status)
	assert.Contains(t, row.Error, "Manufacturer is required")
}

func TestValidateProductMultipleErrorsJoined(t *testing.T) {
	fields := validFields()
	fields["Name"] = ""
	fields["Manufacturer"] = "   "

	row := ValidateProduct(fields, 3)

	assert.Equal(t, RowError, row.Status)
	assert.Equal(t, "Name is required; Manufacturer is required", row.Error)
}

func TestValidateProductOTCPrescriptionConflict(t *testing.T) {
	fields := validFields()
	fields["Prescription_Required"] = "true"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowError, row.Status)
	assert.Contains(t, row.Error, "Type 'otc' conflicts with Prescription_Required")
}

func TestValidateProductNonPrescriptionTypeConflict(t *testing.T) {
	fields := validFields()
	fields["Type"] = "supplement"
	fields["Prescription_Required"] = "yes"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowError, row.Status)
	assert.Contains(t, row.Error, "Type 'supplement' cannot require a prescription")
}

func TestValidateProductPrescriptionTypeWithoutFlagWarnsOnly(t *testing.T) {
	fields := validFields()
	fields["Type"] = "prescription"
	fields["Prescription_Required"] = "false"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowWarning, row.Status)
	assert.Contains(t, row.Warnings,
		"Type 'prescription' usually has Prescription_Required set to true")
}

func TestValidateProductUnrecognizedBooleanWarns(t *testing.T) {
	fields := validFields()
	fields["Prescription_Required"] = "maybe"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowWarning, row.Status)
	assert.Contains(t, row.Warnings,
		"Prescription_Required should be true/false, 1/0, yes/no or N/A")
}

func TestValidateProductDefaultsCurrency(t *testing.T) {
	fields := validFields()
	delete(fields, "Currency")

	row := ValidateProduct(fields, 2)

	assert.Equal(t, "EGP", row.Fields["Currency"])
	for _, warning := range row.Warnings {
		assert.NotContains(t, warning, "Currency")
	}
}

func TestValidateProductUnsupportedCurrencyWarns(t *testing.T) {
	fields := validFields()
	fields["Currency"] = "XYZ"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowWarning, row.Status)
	assert.Contains(t, row.Warnings,
		"Currency 'XYZ' is not supported; EGP will be used as default")
}

func TestValidateProductMedicinesRecommendations(t *testing.T) {
	fields := validFields()
	fields["Name"] = "Panadol Extra"
	fields["Category"] = "Medicines"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowWarning, row.Status)
	assert.Empty(t, row.Error)
	assert.Contains(t, row.Warnings, "Key_Ingredient is recommended for this category")
	assert.Contains(t, row.Warnings, "Strength_Concentration is recommended for this category")
	assert.Contains(t, row.Warnings, "Therapeutic_Class is recommended for this category")
}

func TestValidateProductCategoryNormalization(t *testing.T) {
	fields := validFields()
	fields["Category"] = "Baby-Care"

	row := ValidateProduct(fields, 2)

	assert.Contains(t, row.Warnings, "Volume_Weight is recommended for this category")
	for _, warning := range row.Warnings {
		assert.NotContains(t, warning, "not a known category")
	}
}

func TestValidateProductUnknownCategoryWarns(t *testing.T) {
	fields := validFields()
	fields["Category"] = "Gadgets"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowWarning, row.Status)
	assert.Contains(t, row.Warnings, "Category 'Gadgets' is not a known category")
}

func TestValidateProductImageAndPriceWarnings(t *testing.T) {
	fields := validFields()
	fields["Image_Primary"] = "not-a-url"
	fields["Price_Reference"] = "-5"

	row := ValidateProduct(fields, 2)

	assert.Equal(t, RowWarning, row.Status)
	assert.Contains(t, row.Warnings, "Image_Primary is not a valid URL")
	assert.Contains(t, row.Warnings, "Price_Reference must be a non-negative number")
}

func TestValidateProductAcceptsProperURLAndPrice(t *testing.T) {
	fields := validFields()
	fields["Image_Primary"] = "https://cdn.example.com/p/1.jpg"
	fields["Price_Reference"] = "49.99"

	row := ValidateProduct(fields, 2)
	assert.Equal(t, RowValid, row.Status)
}

func TestMapRowKeepsTemplateColumnsOnly(t *testing.T) {
	header := []string{"Name", "Barcode", "Category"}
	fields := MapRow(header, []string{"Panadol", "12345"})

	assert.Equal(t, "Panadol", fields["Name"])
	assert.Equal(t, "", fields["Category"], "short rows pad with empty cells")
	_, ok := fields["Barcode"]
	assert.False(t, ok, "unknown columns are dropped")
}

func TestProcessFileEmpty(t *testing.T) {
	_, err := ProcessFile("")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestProcessFileStopsOnStructuralErrors(t *testing.T) {
	report, err := ProcessFile("Name,Name_Arabic,Category,Type\nPanadol,بانادول,Medicines,otc\n")

	require.NoError(t, err)
	assert.False(t, report.File.IsValid)
	assert.Equal(t, []string{"Missing required columns: Manufacturer"}, report.File.Errors)
	assert.Empty(t, report.Rows, "rows are not validated when the structure is invalid")
}

func TestProcessFileRowNumbering(t *testing.T) {
	sheet := strings.Join([]string{
		"Name,Name_Arabic,Category,Type,Manufacturer",
		"Panadol,بانادول,Medicines,otc,GSK",
		"",
		",بروفين,Medicines,otc,Abbott",
	}, "\n")

	report, err := ProcessFile(sheet)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, 2, report.Rows[0].RowNumber)
	assert.Equal(t, RowWarning, report.Rows[0].Status)

	// Blank lines never become rows, so numbering stays contiguous.
	assert.Equal(t, 3, report.Rows[1].RowNumber)
	assert.Equal(t, RowError, report.Rows[1].Status)
	assert.Contains(t, report.Rows[1].Error, "Name is required")
}
