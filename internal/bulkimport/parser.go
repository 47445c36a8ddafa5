package bulkimport

import "strings"

// ParseCSV splits raw sheet text into rows of trimmed cells. The first
// row is the header. Fields are comma-separated; a double quote toggles
// quoting so commas inside quotes do not split. Blank lines are
// skipped. This is deliberately more lenient than encoding/csv: every
// cell and line is whitespace-trimmed and a stray quote never aborts
// the parse.
func ParseCSV(raw string) [][]string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	var rows [][]string
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, parseLine(line))
	}
	return rows
}

func parseLine(line string) []string {
	var cells []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(current.String()))

	return cells
}
