package config

import (
	"os"
	"strconv"
)

// Config holds all application-level configuration
type Config struct {
	// Target site
	TargetURL string

	// HTTP server
	ListenAddr string
	UIDistPath string

	// Database (empty disables the Postgres sink)
	DatabaseURL string

	// Output
	JSONOutputPath string
	CSVOutputPath  string

	// Form field mapping override (empty keeps compiled defaults)
	FieldsConfigPath string

	// Fixed settle delays, milliseconds. These are deliberate fixed waits,
	// not adaptive polling: the site renders results asynchronously and the
	// crawl paces itself with plain sleeps.
	ResultsSettleMs int
	ListingSettleMs int
	PageSettleMs    int
	BackSettleMs    int

	Debug bool
}

// Load reads configuration from environment variables or falls back to defaults
func Load() *Config {
	return &Config{
		TargetURL:        getEnv("TARGET_URL", "https://www.imot.bg/search/prodazhbi/grad-sofiya"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":3000"),
		UIDistPath:       getEnv("UI_DIST_PATH", "ui/dist"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JSONOutputPath:   getEnv("JSON_OUTPUT_PATH", "output/recent_ads.json"),
		CSVOutputPath:    getEnv("CSV_OUTPUT_PATH", "output/recent_ads.csv"),
		FieldsConfigPath: getEnv("FIELDS_CONFIG_PATH", ""),
		ResultsSettleMs:  getEnvInt("RESULTS_SETTLE_MS", 2000),
		ListingSettleMs:  getEnvInt("LISTING_SETTLE_MS", 2000),
		PageSettleMs:     getEnvInt("PAGE_SETTLE_MS", 500),
		BackSettleMs:     getEnvInt("BACK_SETTLE_MS", 1000),
		Debug:            getEnv("DEBUG", "") != "",
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
