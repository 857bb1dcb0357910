package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/services"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

const csvHeader = "title,price,location,date,link,imgLink,description\n"

// CSVWriter is the secondary-store sink: an incrementally appended text
// file, one record per line in a fixed field order, price carrying the
// "EUR" suffix in this sink only. The header is written (truncating the
// file) once per process lifetime. Fields are not escaped for embedded
// commas, so a field containing a comma corrupts that row; the artifact's
// established format has this known limitation.
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
	initOnce sync.Once
	initErr  error
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// Append normalizes one record with the EUR suffix and appends it as a
// single line.
func (w *CSVWriter) Append(record models.ListingRecord) error {
	w.initOnce.Do(w.writeHeader)
	if w.initErr != nil {
		return w.initErr
	}

	file, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	r := services.NormalizeListing(record, true)
	line := strings.Join([]string{
		r.Title, r.Price, r.Location, r.Date, r.Link, r.ImgLink, r.Description,
	}, ",") + "\n"

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("failed to append CSV row: %w", err)
	}
	w.logger.Debug("Record appended to CSV: %s", r.Title)
	return nil
}

func (w *CSVWriter) writeHeader() {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.initErr = fmt.Errorf("failed to create output directory: %w", err)
		return
	}
	if err := os.WriteFile(w.filePath, []byte(csvHeader), 0644); err != nil {
		w.initErr = fmt.Errorf("failed to write CSV header: %w", err)
		return
	}
	w.logger.Info("CSV secondary store initialized: %s", w.filePath)
}
