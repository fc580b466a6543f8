// Package normalizer converts fetched listing documents into flat records
// carrying the canonical column set.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"primesquare/internal/models"
)

// Normalization errors.
var (
	// ErrEmptyInput marks a document with no content at all: an empty body or
	// a JSON null. An empty array is not an error; it normalizes to zero
	// records.
	ErrEmptyInput = errors.New("empty input document")

	// ErrSchemaMismatch marks a document whose shape cannot be coerced into a
	// list of listing objects.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// Processor turns fetched documents into canonical records. Normalization is
// pure: the same input always produces the same records.
type Processor struct{}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{}
}

// Decode parses raw response bytes and normalizes the parsed document.
func (p *Processor) Decode(body []byte) ([]models.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyInput
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrSchemaMismatch, err)
	}

	return p.Normalize(doc)
}

// Normalize converts a decoded JSON document into records with exactly the
// canonical columns. Fields missing from a listing are kept as nil; fields
// outside the canonical set are dropped.
func (p *Processor) Normalize(doc any) ([]models.Record, error) {
	listings, err := unwrap(doc)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(listings))

	for _, listing := range listings {
		flat := ApplyAliases(Flatten(listing))
		records = append(records, project(flat))
	}

	return records, nil
}

// project selects the canonical columns from a flat field map. Every record
// gets all columns; absent fields carry nil as the missing marker.
func project(flat map[string]any) models.Record {
	cols := models.Columns()
	rec := make(models.Record, len(cols))

	for _, col := range cols {
		if v, ok := flat[col]; ok {
			rec[col] = v
		} else {
			rec[col] = nil
		}
	}

	return rec
}
