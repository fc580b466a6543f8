package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"primesquare/internal/models"
)

// CSV reading errors.
var (
	ErrMissingHeader  = errors.New("CSV file has no header row")
	ErrHeaderMismatch = errors.New("CSV header does not match canonical columns")
)

// CSVStore writes normalized records under the transformed artifact
// directory, columns in canonical order.
type CSVStore struct {
	dir string
}

// NewCSVStore creates a store rooted at dir.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Path returns the CSV path for a city.
func (s *CSVStore) Path(city models.City) string {
	return filepath.Join(s.dir, "properties_data_"+city.Slug()+".csv")
}

// Save writes the canonical header plus one row per record and returns the
// file path. Nil values become empty cells; floats are rendered without
// trailing zeros. Zero records still produces a header-only file.
func (s *CSVStore) Save(city models.City, records []models.Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create transformed dir: %w", err)
	}

	cols := models.Columns()

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(cols))

	for _, rec := range records {
		for i, col := range cols {
			row[i] = formatCell(rec[col])
		}

		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	path := s.Path(city)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// Load reads a canonical CSV back into records. Empty cells become nil and
// numeric columns parse to float64, mirroring what the normalizer produces.
func (s *CSVStore) Load(city models.City) ([]models.Record, error) {
	f, err := os.Open(s.Path(city))
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	cols := models.Columns()
	if !slices.Equal(rows[0], cols) {
		return nil, fmt.Errorf("%w: got %v", ErrHeaderMismatch, rows[0])
	}

	numeric := make(map[string]bool, len(models.NumericColumns()))
	for _, col := range models.NumericColumns() {
		numeric[col] = true
	}

	records := make([]models.Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		rec := make(models.Record, len(cols))

		for i, col := range cols {
			cell := row[i]

			switch {
			case cell == "":
				rec[col] = nil
			case numeric[col]:
				val, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("failed to parse %s value %q: %w", col, cell, err)
				}

				rec[col] = val
			default:
				rec[col] = cell
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// formatCell renders one record value as a CSV cell.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
