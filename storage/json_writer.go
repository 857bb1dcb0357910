package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// JSONWriter persists the full result sequence of a run as one JSON array,
// overwriting the previous artifact wholesale.
type JSONWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewJSONWriter creates a new JSONWriter
func NewJSONWriter(filePath string, logger *utils.Logger) *JSONWriter {
	return &JSONWriter{filePath: filePath, logger: logger}
}

// WriteAll writes the records to the artifact path, creating the output
// directory as needed.
func (w *JSONWriter) WriteAll(records []models.ListingRecord) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(w.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	w.logger.Info("Results written to: %s (%d records)", w.filePath, len(records))
	return nil
}
