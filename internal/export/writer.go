package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"channelog/internal/domain"
)

// WriteJSON writes the record sequence to path, creating parent directories.
func WriteJSON(path string, records []domain.MessageRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a record sequence previously written by WriteJSON.
func ReadJSON(path string) ([]domain.MessageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	var records []domain.MessageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records file %s: %w", path, err)
	}
	return records, nil
}
