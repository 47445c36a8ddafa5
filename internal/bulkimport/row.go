package bulkimport

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Row classification. Error excludes the row from commit; warning does not.
const (
	RowValid   = "valid"
	RowWarning = "warning"
	RowError   = "error"
)

// ProcessedRow is one data row after mapping and semantic validation.
// RowNumber is the row's position in the source file, counting the
// header as row 1.
type ProcessedRow struct {
	Fields    map[string]string `json:"fields"`
	RowNumber int               `json:"row_number"`
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// Report is the full preview for an uploaded sheet.
type Report struct {
	File FileValidation `json:"file"`
	Rows []ProcessedRow `json:"rows"`
}

// ErrEmptyFile is raised when the sheet has no header row at all.
var ErrEmptyFile = errors.New("file is empty or contains no rows")

// MapRow pairs header cells with row cells, keeping only recognized
// template columns. Unrecognized headers were already flagged at the
// structural stage and are dropped silently here.
func MapRow(header, row []string) map[string]string {
	fields := make(map[string]string)
	for i, col := range header {
		if !templateColumnSet[col] {
			continue
		}
		if i < len(row) {
			fields[col] = row[i]
		} else {
			fields[col] = ""
		}
	}
	return fields
}

func hasContent(fields map[string]string) bool {
	for _, value := range fields {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

// ProcessFile runs the full validation pipeline: parse, structural
// check, row mapping and per-row semantic validation. When the
// structure is invalid the preview stops at the file stage.
func ProcessFile(raw string) (Report, error) {
	rows := ParseCSV(raw)
	if len(rows) == 0 {
		return Report{}, ErrEmptyFile
	}

	header := rows[0]
	report := Report{File: ValidateFileStructure(header)}
	if !report.File.IsValid {
		return report, nil
	}

	for i, row := range rows[1:] {
		fields := MapRow(header, row)
		if !hasContent(fields) {
			continue
		}
		report.Rows = append(report.Rows, ValidateProduct(fields, i+2))
	}

	return report, nil
}

// ValidateProduct applies the per-row business rules to a mapped field
// set. Hard errors force status "error"; advisories accumulate as
// warnings. The Currency field is defaulted to EGP in place when blank.
func ValidateProduct(fields map[string]string, rowNumber int) ProcessedRow {
	var errs []string
	var warnings []string

	for _, col := range RequiredColumns {
		if strings.TrimSpace(fields[col]) == "" {
			errs = append(errs, col+" is required")
		}
	}

	productType := strings.ToLower(strings.TrimSpace(fields["Type"]))
	prescriptionFlag := fields["Prescription_Required"]

	if productType == "otc" && isTruthy(prescriptionFlag) {
		errs = append(errs, "Type 'otc' conflicts with Prescription_Required")
	}
	if nonPrescriptionTypes[productType] && isTruthy(prescriptionFlag) {
		errs = append(errs, "Type '"+productType+"' cannot require a prescription")
	}

	warnings = append(warnings, categoryRecommendations(fields)...)

	if trimmed := strings.TrimSpace(prescriptionFlag); trimmed != "" {
		if !acceptedBooleans[strings.ToLower(trimmed)] {
			warnings = append(warnings,
				"Prescription_Required should be true/false, 1/0, yes/no or N/A")
		}
	}

	if productType == "prescription" && !isTruthy(prescriptionFlag) {
		warnings = append(warnings,
			"Type 'prescription' usually has Prescription_Required set to true")
	}

	for _, col := range []string{"Image_Primary", "Image_Secondary"} {
		if value := fields[col]; !isBlank(value) && !isURL(value) {
			warnings = append(warnings, col+" is not a valid URL")
		}
	}

	if price := strings.TrimSpace(fields["Price_Reference"]); price != "" {
		parsed, err := strconv.ParseFloat(price, 64)
		if err != nil || parsed < 0 {
			warnings = append(warnings, "Price_Reference must be a non-negative number")
		}
	}

	if currency := strings.TrimSpace(fields["Currency"]); currency == "" {
		fields["Currency"] = "EGP"
	} else if !supportedCurrencies[strings.ToUpper(currency)] {
		warnings = append(warnings,
			"Currency '"+currency+"' is not supported; EGP will be used as default")
	}

	if category := fields["Category"]; strings.TrimSpace(category) != "" {
		if !knownCategories[normalizeCategory(category)] {
			warnings = append(warnings, "Category '"+category+"' is not a known category")
		}
	}

	if isBlank(fields["Brand"]) && isBlank(fields["Brand_Arabic"]) {
		warnings = append(warnings, "Missing brand information")
	}

	if isBlank(fields["Description_Short"]) && isBlank(fields["Description_Detailed"]) &&
		isBlank(fields["Description_Arabic_Short"]) && isBlank(fields["Description_Arabic_Detailed"]) {
		warnings = append(warnings, "No product description provided")
	}

	if isBlank(fields["Name_Arabic"]) {
		warnings = append(warnings, "Arabic name is missing")
	}
	if isBlank(fields["Description_Arabic_Short"]) && isBlank(fields["Description_Arabic_Detailed"]) {
		warnings = append(warnings, "Arabic description is missing")
	}

	row := ProcessedRow{
		Fields:    fields,
		RowNumber: rowNumber,
		Warnings:  warnings,
		Status:    RowValid,
	}
	if len(errs) > 0 {
		row.Status = RowError
		row.Error = strings.Join(errs, "; ")
	} else if len(warnings) > 0 {
		row.Status = RowWarning
	}
	return row
}

// categoryRecommendations checks category-specific recommended fields.
func categoryRecommendations(fields map[string]string) []string {
	var recommended []string
	switch normalizeCategory(fields["Category"]) {
	case "medicines", "medicine":
		recommended = []string{"Key_Ingredient", "Strength_Concentration", "Therapeutic_Class"}
	case "babycare", "baby", "skincare":
		recommended = []string{"Volume_Weight"}
	case "vitamins", "supplements":
		recommended = []string{"Key_Ingredient", "Strength_Concentration"}
	default:
		return nil
	}

	var warnings []string
	for _, col := range recommended {
		if isBlank(fields[col]) {
			warnings = append(warnings, col+" is recommended for this category")
		}
	}
	return warnings
}

func isURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
