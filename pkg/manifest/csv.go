package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoPaths is returned when a manifest yields no usable keys.
var ErrNoPaths = errors.New("no paths found in manifest")

// LoadCSV reads the CSV file and returns the non-empty values of the given
// column, in file order. The column must be present in the header row.
func LoadCSV(csvPath, column string) ([]string, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", csvPath, err)
	}

	colIdx := -1
	for i, name := range header {
		// Tolerate a UTF-8 BOM on the first header cell
		if strings.TrimPrefix(name, "\uFEFF") == column {
			colIdx = i
			break
		}
	}
	if colIdx == -1 {
		return nil, fmt.Errorf("column %q not found in %s", column, csvPath)
	}

	var keys []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row from %s: %w", csvPath, err)
		}

		if colIdx >= len(record) {
			continue
		}

		value := strings.TrimSpace(record[colIdx])
		if value == "" {
			continue
		}

		keys = append(keys, value)
	}

	return keys, nil
}
