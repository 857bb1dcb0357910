package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/config"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/scraper/imotbg"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/server"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/services"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/storage"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

func main() {
	criteriaPath := flag.String("criteria", "", "Path to a criteria JSON file; runs one crawl and exits instead of serving HTTP")
	headless := flag.Bool("headless", true, "Run the browser headless (one-shot mode)")
	saveCSV := flag.Bool("csv", false, "Also append results to the CSV secondary store (one-shot mode)")
	flag.Parse()

	// ================== Bootstrap ====================
	_ = godotenv.Load()
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("imot.bg recent listings crawler")
	logger.Info("Target: %s", cfg.TargetURL)

	fields, err := config.LoadFieldMap(cfg.FieldsConfigPath)
	if err != nil {
		logger.Error("Cannot load form field mapping: %v", err)
		os.Exit(1)
	}

	// =================== Sinks =======================
	jsonWriter := storage.NewJSONWriter(cfg.JSONOutputPath, logger)
	csvWriter := storage.NewCSVWriter(cfg.CSVOutputPath, logger)

	var pgWriter *storage.PostgresWriter
	if cfg.DatabaseURL != "" {
		pgWriter, err = storage.NewPostgresWriter(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Cannot connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pgWriter.Close()
		if err := pgWriter.CreateTable(); err != nil {
			logger.Error("Failed to create DB table: %v", err)
			os.Exit(1)
		}
	}

	// =============== Crawl wiring ====================
	scraper := imotbg.NewScraper(cfg, fields, logger)
	insightSvc := services.NewInsightService(logger)

	crawl := func(criteria models.SearchCriteria, opts models.CrawlOptions) ([]models.ListingRecord, error) {
		results, err := scraper.Run(criteria, opts, csvWriter, jsonWriter)
		if err != nil {
			return nil, err
		}
		if pgWriter != nil {
			if dbErr := pgWriter.WriteAll(results); dbErr != nil {
				logger.Error("Failed to store results in PostgreSQL: %v", dbErr)
			}
		}
		services.PrintInsightReport(insightSvc.Generate(results))
		return results, nil
	}

	// One-shot CLI mode
	if *criteriaPath != "" {
		runOnce(crawl, *criteriaPath, *headless, *saveCSV, logger)
		return
	}

	// HTTP server mode
	srv := server.New(crawl, cfg.UIDistPath, logger)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// runOnce reads criteria from a JSON file and performs a single crawl.
func runOnce(crawl server.CrawlFunc, criteriaPath string, headless, saveCSV bool, logger *utils.Logger) {
	data, err := os.ReadFile(criteriaPath)
	if err != nil {
		logger.Error("Cannot read criteria file: %v", err)
		os.Exit(1)
	}

	var criteria models.SearchCriteria
	if err := json.Unmarshal(data, &criteria); err != nil {
		logger.Error("Cannot parse criteria file: %v", err)
		os.Exit(1)
	}
	criteria.ApplyDefaults()

	opts := models.CrawlOptions{Headless: &headless, SaveCSV: saveCSV}
	results, err := crawl(criteria, opts)
	if err != nil {
		logger.Error("Crawl failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Crawl completed with %d matching listings", len(results))
}
