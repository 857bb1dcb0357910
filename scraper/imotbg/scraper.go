package imotbg

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/config"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// RecordSink consumes individual records as they are extracted. The CSV
// secondary store implements it.
type RecordSink interface {
	Append(record models.ListingRecord) error
}

// ArtifactSink consumes the full result sequence once, at end of run. The
// JSON artifact writer implements it.
type ArtifactSink interface {
	WriteAll(records []models.ListingRecord) error
}

// Scraper is the top-level crawl orchestrator: one browsing session, one
// search configuration, a sequential walk over every result page and every
// listing on it. There is no parallel fetching; listings are visited in the
// order their URLs appear in the page markup and pages in ascending index
// order.
type Scraper struct {
	cfg        *config.Config
	fields     config.FieldMap
	logger     *utils.Logger
	form       *SearchForm
	pagination *Pagination
	extractor  *Extractor

	// newPage is swapped for a scripted fake in tests.
	newPage func(headless bool) (Page, error)
}

// NewScraper creates a Scraper driving a real browser.
func NewScraper(cfg *config.Config, fields config.FieldMap, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		fields:     fields,
		logger:     logger,
		form:       NewSearchForm(fields, logger),
		pagination: NewPagination(fields, logger),
		extractor:  NewExtractor(logger),
		newPage: func(headless bool) (Page, error) {
			return NewBrowserPage(headless)
		},
	}
}

// Run executes one full crawl: open a session, configure the search, walk
// the result pages and return the collected records. The session is closed
// on every exit path. Failures before the page loop are fatal; per-listing
// failures only cost that listing. The secondary sink may be nil; the
// artifact sink receives the full result slice after the session closes.
func (s *Scraper) Run(criteria models.SearchCriteria, opts models.CrawlOptions, secondary RecordSink, artifact ArtifactSink) ([]models.ListingRecord, error) {
	criteria.ApplyDefaults()

	s.logger.Info("Starting crawl of %s (duration window: %s)", s.cfg.TargetURL, criteria.Duration)

	page, err := s.newPage(opts.IsHeadless())
	if err != nil {
		return nil, fmt.Errorf("browser session init failed: %w", err)
	}

	results, err := s.crawl(page, criteria, opts, secondary)
	page.Close()
	if err != nil {
		return nil, err
	}

	if artifact != nil {
		if artErr := artifact.WriteAll(results); artErr != nil {
			s.logger.Error("Failed to write results artifact: %v", artErr)
		}
	}

	s.logger.Info("Finished processing all pages. Found %d listings.", len(results))
	return results, nil
}

// crawl runs the init/configure/enumerate/page-loop sequence against an
// open page session.
func (s *Scraper) crawl(page Page, criteria models.SearchCriteria, opts models.CrawlOptions, secondary RecordSink) ([]models.ListingRecord, error) {
	results := []models.ListingRecord{}

	if err := page.Navigate(s.cfg.TargetURL); err != nil {
		return nil, fmt.Errorf("search page load failed: %w", err)
	}
	s.form.DismissCookieBanner(page)

	if err := s.form.Apply(page, criteria); err != nil {
		return nil, fmt.Errorf("search configuration failed: %w", err)
	}
	page.Sleep(s.settle(s.cfg.ResultsSettleMs))

	totalPages, err := s.pagination.TotalPages(page)
	if err != nil {
		return nil, fmt.Errorf("page enumeration failed: %w", err)
	}
	s.logger.Info("Total pages: %d", totalPages+1)

	if !opts.SaveCSV {
		secondary = nil
	}

	// The first results page is already loaded, so the loop body runs before
	// the first advance. A totalPages of zero still processes that one page.
	i := 0
	for {
		s.logger.Info("Processing page %d", i+1)
		s.processListings(page, criteria, &results, secondary)

		if err := s.pagination.Advance(page, i); err != nil {
			return nil, err
		}
		page.Sleep(s.settle(s.cfg.PageSettleMs))
		i++
		if i >= totalPages {
			break
		}
	}

	return results, nil
}

// processListings collects every listing URL on the current results page and
// walks them sequentially. A failing listing is logged, answered with a
// single back-navigation and skipped; it never aborts the loop.
func (s *Scraper) processListings(page Page, criteria models.SearchCriteria, results *[]models.ListingRecord, secondary RecordSink) {
	hrefs, err := page.Hrefs(s.fields.ListingAnchor)
	if err != nil {
		s.logger.Error("Listing URL collection failed: %v", err)
		return
	}
	if len(hrefs) == 0 {
		s.logger.Info("No listing URLs found on the page.")
		return
	}
	s.logger.Info("Found %d listing URLs on the page.", len(hrefs))

	for i, href := range hrefs {
		url := listingURL(href)
		if url == "" {
			s.logger.Info("Listing %d has no valid URL, skipping...", i+1)
			continue
		}
		s.logger.Info("Processing listing %d/%d: %s", i+1, len(hrefs), url)

		if err := s.processListing(page, url, criteria, results, secondary); err != nil {
			s.logger.Error("Error processing listing %d: %v", i+1, err)
			// One recovery attempt: navigate back to the results page.
			if backErr := page.Back(); backErr != nil {
				s.logger.Error("Failed to go back: %v", backErr)
			}
			page.Sleep(s.settle(s.cfg.BackSettleMs))
			continue
		}

		page.Sleep(s.settle(s.cfg.ListingSettleMs))
		s.logger.Debug("Completed processing listing %d", i+1)
	}
}

// processListing visits one listing URL and, when the recency gate admits
// it, appends the extracted record to the results and the secondary sink.
func (s *Scraper) processListing(page Page, url string, criteria models.SearchCriteria, results *[]models.ListingRecord, secondary RecordSink) error {
	if err := page.Navigate(url); err != nil {
		return err
	}

	record, err := s.extractor.CheckAndExtract(page, criteria.Duration)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	*results = append(*results, *record)
	if secondary != nil {
		if err := secondary.Append(*record); err != nil {
			s.logger.Warn("Secondary store append failed: %v", err)
		}
	}
	return nil
}

func (s *Scraper) settle(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// listingURL turns a protocol-relative listing href ("//www.imot.bg/...")
// into an absolute URL the way the site expects it fetched.
func listingURL(href string) string {
	if !strings.HasPrefix(href, "//") {
		return ""
	}
	return "http://" + href[2:]
}
