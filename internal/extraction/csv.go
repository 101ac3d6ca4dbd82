package extraction

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// extractCSV renders each data row as "header: value" lines so the text
// stays meaningful without the tabular layout. The first row is treated as
// headers.
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return "", nil
	}

	headers := records[0]
	var buf strings.Builder
	for _, row := range records[1:] {
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		for j, cell := range row {
			if j > 0 {
				buf.WriteString(", ")
			}
			if j < len(headers) {
				buf.WriteString(headers[j] + ": " + cell)
			} else {
				buf.WriteString(cell)
			}
		}
	}
	return buf.String(), nil
}
