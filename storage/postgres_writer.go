package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"

	_ "github.com/lib/pq"
)

// PostgresWriter stores crawl results in PostgreSQL. Records carry no
// identity, so rows are plain inserts and repeat crawls may store the same
// listing twice.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter creates a new PostgresWriter and pings the DB
func NewPostgresWriter(connStr string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

// CreateTable creates the recent_ads table if it doesn't exist
func (w *PostgresWriter) CreateTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS recent_ads (
		id          SERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		price       TEXT,
		location    TEXT,
		date_text   TEXT,
		link        TEXT,
		img_link    TEXT,
		description TEXT,
		scraped_at  TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_recent_ads_location   ON recent_ads (location);
	CREATE INDEX IF NOT EXISTS idx_recent_ads_scraped_at ON recent_ads (scraped_at);
	`
	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'recent_ads' is ready")
	return nil
}

// WriteAll inserts the records of one run in a single transaction.
func (w *PostgresWriter) WriteAll(records []models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO recent_ads (title, price, location, date_text, link, img_link, description, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0
	for _, r := range records {
		_, err = stmt.Exec(r.Title, r.Price, r.Location, r.Date, r.Link, r.ImgLink, r.Description, now)
		if err != nil {
			w.logger.Warn("Skipping insert for '%s': %v", r.Title, err)
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Inserted %d/%d listings into PostgreSQL", inserted, len(records))
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() {
	if w.db != nil {
		_ = w.db.Close()
	}
}
