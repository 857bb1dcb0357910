package services

import (
	"strconv"
	"strings"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// InsightReport summarizes one crawl's results.
type InsightReport struct {
	TotalListings      int
	PricedListings     int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	ListingsByLocation map[string]int
}

// InsightService computes summary statistics over a result set. Prices are
// normalized numeric text; records whose price doesn't parse (price on
// request, ranges) are counted but excluded from the price stats.
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the report for a finished run.
func (s *InsightService) Generate(records []models.ListingRecord) *InsightReport {
	report := &InsightReport{
		TotalListings:      len(records),
		ListingsByLocation: make(map[string]int),
	}

	var sum float64
	for _, r := range records {
		if r.Location != "" {
			report.ListingsByLocation[r.Location]++
		}

		price, ok := parseNumericPrice(r.Price)
		if !ok {
			continue
		}
		if report.PricedListings == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if price > report.MaxPrice {
			report.MaxPrice = price
		}
		sum += price
		report.PricedListings++
	}
	if report.PricedListings > 0 {
		report.AveragePrice = sum / float64(report.PricedListings)
	}

	s.logger.Debug("Insight report generated for %d listings", report.TotalListings)
	return report
}

// parseNumericPrice reads a normalized price string like "125000" or
// "125,000". Anything non-numeric (e.g. "Припазаряване") is rejected.
func parseNumericPrice(price string) (float64, bool) {
	cleaned := strings.ReplaceAll(price, ",", "")
	if cleaned == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || val <= 0 {
		return 0, false
	}
	return val, true
}
