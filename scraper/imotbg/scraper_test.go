package imotbg

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/config"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

const searchURL = "https://www.imot.bg/search/test"

func testConfig() *config.Config {
	return &config.Config{TargetURL: searchURL}
}

func submitSelector(fields config.FieldMap) string {
	return fmt.Sprintf(`input[value=%q]`, fields.SubmitValue)
}

// newTestScraper wires a Scraper to a fake page frozen at 2025-07-17 10:00.
func newTestScraper(page *fakePage) *Scraper {
	s := NewScraper(testConfig(), config.DefaultFieldMap(), utils.NewLogger(false))
	s.newPage = func(bool) (Page, error) { return page, nil }
	s.extractor.now = func() time.Time {
		return time.Date(2025, time.July, 17, 10, 0, 0, 0, time.Local)
	}
	return s
}

func addListingDoc(page *fakePage, url, title, dateText string) *fakeDoc {
	doc := page.addDoc(url)
	doc.texts[dateSelector] = dateText
	doc.texts[titleSelector] = title + "\n"
	doc.texts[priceSelector] = "125 000 EUR"
	doc.texts[locationSelector] = " град София,  Лозенец"
	doc.texts[descriptionSelector] = "Светъл   апартамент"
	doc.attrs[ogImageSelector] = map[string]string{"content": "https://cdn.imot.bg/1.jpg"}
	return doc
}

// One page with three listings, the middle one failing navigation: the run
// must collect the other two, attempt one back-navigation and not abort.
func TestRunCollectsAndRecoversPerListing(t *testing.T) {
	fields := config.DefaultFieldMap()
	page := newFakePage()

	search := page.addDoc(searchURL)
	search.clickable[submitSelector(fields)] = true
	search.hrefs[fields.ListingAnchor] = []string{
		"//www.imot.bg/ads/1",
		"//www.imot.bg/ads/2",
		"//www.imot.bg/ads/3",
	}

	recent := "Коригирана в 09:30 на 16 юли, 2025 год."
	addListingDoc(page, "http://www.imot.bg/ads/1", "Двустаен апартамент", recent)
	addListingDoc(page, "http://www.imot.bg/ads/3", "Тристаен апартамент", recent)
	page.failNav["http://www.imot.bg/ads/2"] = errors.New("net::ERR_CONNECTION_RESET")

	s := newTestScraper(page)
	results, err := s.Run(models.SearchCriteria{PropertyType: "ap", SortOrder: "1"}, models.CrawlOptions{}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d records, want 2", len(results))
	}
	if results[0].Title != "Двустаен апартамент" || results[1].Title != "Тристаен апартамент" {
		t.Errorf("unexpected titles: %q, %q", results[0].Title, results[1].Title)
	}
	if results[0].Price != "125000" {
		t.Errorf("Price = %q, want bare normalized numeric", results[0].Price)
	}
	if results[0].Link != "http://www.imot.bg/ads/1" {
		t.Errorf("Link = %q, want the resolved listing URL", results[0].Link)
	}
	if results[0].ImgLink != "https://cdn.imot.bg/1.jpg" {
		t.Errorf("ImgLink = %q", results[0].ImgLink)
	}
	if page.backCalls != 1 {
		t.Errorf("backCalls = %d, want exactly one recovery navigation", page.backCalls)
	}
	if !page.closed {
		t.Error("session not closed after normal completion")
	}
}

// A listing outside the requested window contributes no record and its full
// field read never happens.
func TestRunSkipsOutOfWindowListingBeforeFullRead(t *testing.T) {
	fields := config.DefaultFieldMap()
	page := newFakePage()

	search := page.addDoc(searchURL)
	search.clickable[submitSelector(fields)] = true
	search.hrefs[fields.ListingAnchor] = []string{"//www.imot.bg/ads/old"}

	addListingDoc(page, "http://www.imot.bg/ads/old", "Стара обява",
		"Публикувана на 1 юни, 2025 год.")

	s := newTestScraper(page)
	results, err := s.Run(models.SearchCriteria{PropertyType: "ap", SortOrder: "1", Duration: models.DurationLast48h}, models.CrawlOptions{}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 0 {
		t.Fatalf("got %d records, want 0", len(results))
	}
	if page.reads[dateSelector] != 1 {
		t.Errorf("date reads = %d, want 1", page.reads[dateSelector])
	}
	if page.reads[titleSelector] != 0 {
		t.Errorf("title reads = %d; full extraction must not run for a gated-out listing", page.reads[titleSelector])
	}
}

// Unparseable dates are "no date": excluded, never an error.
func TestRunSkipsUnparseableDate(t *testing.T) {
	fields := config.DefaultFieldMap()
	page := newFakePage()

	search := page.addDoc(searchURL)
	search.clickable[submitSelector(fields)] = true
	search.hrefs[fields.ListingAnchor] = []string{"//www.imot.bg/ads/x"}

	addListingDoc(page, "http://www.imot.bg/ads/x", "Обява", "Промотирана обява")

	s := newTestScraper(page)
	results, err := s.Run(models.SearchCriteria{PropertyType: "ap", SortOrder: "1"}, models.CrawlOptions{}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d records, want 0", len(results))
	}
	if page.backCalls != 0 {
		t.Errorf("backCalls = %d; a filtered listing is not a failure", page.backCalls)
	}
}

// The page loop runs once per derived page, in ascending order.
func TestRunWalksAllPages(t *testing.T) {
	fields := config.DefaultFieldMap()
	page := newFakePage()

	search := page.addDoc(searchURL)
	search.clickable[submitSelector(fields)] = true
	search.hrefs[fields.ListingAnchor] = []string{"//www.imot.bg/ads/1"}
	// 4 raw pagination links means 2 true pages.
	search.counts[fields.PaginationAnchor] = 4

	recent := "Коригирана в 09:30 на 16 юли, 2025 год."
	addListingDoc(page, "http://www.imot.bg/ads/1", "Обява", recent)

	s := newTestScraper(page)
	results, err := s.Run(models.SearchCriteria{PropertyType: "ap", SortOrder: "1"}, models.CrawlOptions{}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("got %d records, want 1", len(results))
	}
	// One URL collection per page of the derived count.
	if page.hrefsReads != 2 {
		t.Errorf("listing URL collections = %d, want one per derived page (2)", page.hrefsReads)
	}
}

// A missing submit button is a session-level failure: propagated, session
// still closed.
func TestRunFatalOnMissingSubmit(t *testing.T) {
	page := newFakePage()
	page.addDoc(searchURL) // no clickable submit

	s := newTestScraper(page)
	_, err := s.Run(models.SearchCriteria{PropertyType: "ap", SortOrder: "1"}, models.CrawlOptions{}, nil, nil)
	if err == nil {
		t.Fatal("expected a fatal configuration error")
	}
	if !page.closed {
		t.Error("session must be closed on the fatal path")
	}
}

// The CSV secondary sink receives records only when the option is on.
func TestRunSecondarySinkGating(t *testing.T) {
	fields := config.DefaultFieldMap()
	recent := "Коригирана в 09:30 на 16 юли, 2025 год."

	build := func() *fakePage {
		page := newFakePage()
		search := page.addDoc(searchURL)
		search.clickable[submitSelector(fields)] = true
		search.hrefs[fields.ListingAnchor] = []string{"//www.imot.bg/ads/1"}
		addListingDoc(page, "http://www.imot.bg/ads/1", "Обява", recent)
		return page
	}

	criteria := models.SearchCriteria{PropertyType: "ap", SortOrder: "1"}

	sink := &captureSink{}
	s := newTestScraper(build())
	if _, err := s.Run(criteria, models.CrawlOptions{SaveCSV: true}, sink, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.records) != 1 {
		t.Errorf("secondary sink got %d records, want 1", len(sink.records))
	}

	sink = &captureSink{}
	s = newTestScraper(build())
	if _, err := s.Run(criteria, models.CrawlOptions{SaveCSV: false}, sink, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("secondary sink got %d records with saveCsv off, want 0", len(sink.records))
	}
}

type captureSink struct {
	records []models.ListingRecord
}

func (c *captureSink) Append(r models.ListingRecord) error {
	c.records = append(c.records, r)
	return nil
}
