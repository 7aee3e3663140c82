package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NumberImport is the result of reading draw numbers from a CSV file
type NumberImport struct {
	Numbers   []string
	TotalRows int
	Skipped   []string
}

// ReadDrawNumbers reads ticket numbers from CSV. The number column is found by
// header name; rows with empty or non-digit numbers are skipped and reported.
func ReadDrawNumbers(r io.Reader) (*NumberImport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	numberIdx := findColumnIndex(header, []string{"Number", "Ticket Number", "Lotto", "Lotto Number"})
	if numberIdx == -1 {
		return nil, errors.New("number column not found in CSV")
	}

	result := &NumberImport{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.TotalRows++
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: %v", result.TotalRows, err))
			continue
		}
		if numberIdx >= len(row) {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: missing number", result.TotalRows))
			continue
		}

		number := strings.TrimSpace(row[numberIdx])
		if !IsDigits(number) {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: invalid number %q", result.TotalRows, number))
			continue
		}
		result.Numbers = append(result.Numbers, number)
	}
	return result, nil
}

// findColumnIndex finds the index of a column by possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}
