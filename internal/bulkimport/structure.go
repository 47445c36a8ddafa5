package bulkimport

import (
	"fmt"
	"strings"
)

// FileValidation is the structural verdict on an uploaded sheet.
// Errors block the import; warnings do not.
type FileValidation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateFileStructure checks the header row against the template:
// missing required columns block, everything else is advisory.
func ValidateFileStructure(header []string) FileValidation {
	result := FileValidation{IsValid: true}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		result.IsValid = false
		result.Errors = append(result.Errors,
			"Missing required columns: "+strings.Join(missing, ", "))
	}

	var unknown []string
	for _, col := range header {
		if !templateColumnSet[col] {
			unknown = append(unknown, col)
		}
	}
	if len(unknown) > 0 {
		result.Warnings = append(result.Warnings,
			"Unknown columns will be ignored: "+strings.Join(unknown, ", "))
	}

	var missingRecommended []string
	for _, col := range RecommendedColumns {
		if !present[col] {
			missingRecommended = append(missingRecommended, col)
		}
	}
	if len(missingRecommended) > 0 {
		result.Warnings = append(result.Warnings,
			"Missing recommended columns: "+strings.Join(missingRecommended, ", "))
	}

	var enhanced []string
	for _, col := range EnhancedColumns {
		if present[col] {
			enhanced = append(enhanced, col)
		}
	}
	if len(enhanced) > 0 {
		result.Warnings = append(result.Warnings,
			"Enhanced columns detected: "+strings.Join(enhanced, ", "))
	}
	result.Warnings = append(result.Warnings, completenessHint(len(enhanced)))

	if mismatch := columnOrderMismatch(header); mismatch {
		result.Warnings = append(result.Warnings,
			"Column order differs from the template; columns are matched by name, order is ignored")
	}

	return result
}

// completenessHint classifies the sheet into one of three template
// tiers by how many enhanced columns it carries.
func completenessHint(enhancedCount int) string {
	total := len(EnhancedColumns)
	switch {
	case enhancedCount == total:
		return "Full enhanced template detected"
	case enhancedCount >= total/2:
		return fmt.Sprintf("Partial enhanced template detected (%d of %d enhanced columns)", enhancedCount, total)
	default:
		return "Basic template detected; enhanced columns improve product listings"
	}
}

// columnOrderMismatch reports whether the template columns present in
// the header appear in a different relative order than the canonical
// template.
func columnOrderMismatch(header []string) bool {
	var inHeader []string
	for _, col := range header {
		if templateColumnSet[col] {
			inHeader = append(inHeader, col)
		}
	}

	headerSet := make(map[string]bool, len(inHeader))
	for _, col := range inHeader {
		headerSet[col] = true
	}

	var canonical []string
	for _, col := range TemplateColumns {
		if headerSet[col] {
			canonical = append(canonical, col)
		}
	}

	if len(inHeader) != len(canonical) {
		// Duplicate template columns in the header; treat as a mismatch.
		return true
	}
	for i := range inHeader {
		if inHeader[i] != canonical[i] {
			return true
		}
	}
	return false
}
