// Package storage persists pipeline artifacts: raw API snapshots and
// transformed CSV files, one per city.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"primesquare/internal/models"
)

// RawStore writes raw API responses under the raw artifact directory.
type RawStore struct {
	dir string
}

// NewRawStore creates a store rooted at dir.
func NewRawStore(dir string) *RawStore {
	return &RawStore{dir: dir}
}

// Path returns the snapshot path for a city.
func (s *RawStore) Path(city models.City) string {
	return filepath.Join(s.dir, "properties_data_"+city.Slug()+".json")
}

// Save writes the response body for the city and returns the file path.
// Valid JSON is pretty-printed, anything else is written verbatim. The
// directory is created on demand.
func (s *RawStore) Save(city models.City, body []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create raw dir: %w", err)
	}

	out := body

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		out = pretty.Bytes()
	}

	path := s.Path(city)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write raw snapshot: %w", err)
	}

	return path, nil
}

// Load reads a previously saved snapshot back.
func (s *RawStore) Load(city models.City) ([]byte, error) {
	body, err := os.ReadFile(s.Path(city))
	if err != nil {
		return nil, fmt.Errorf("failed to read raw snapshot: %w", err)
	}

	return body, nil
}
