package imotbg

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/services"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// Detail-page selectors. These live on the listing page itself and do not
// vary with the search form, so they are fixed here rather than in the
// field map.
const (
	titleSelector       = "h1.obTitle"
	dateSelector        = ".adPrice .info div"
	priceSelector       = ".Price"
	locationSelector    = ".advHeader .info .location"
	descriptionSelector = "#description_div"
	seeMoreSelector     = "a#dots_link_more"
	ogImageSelector     = `meta[property="og:image"]`
)

// Extractor reads a loaded listing detail page into a normalized record,
// gated by the recency window.
type Extractor struct {
	logger *utils.Logger
	now    func() time.Time
}

func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger, now: time.Now}
}

// CheckAndExtract first reads only the publish/update date text and checks
// it against the requested recency window. Listings with no parseable date
// or outside the window yield no record and skip the full field read, so a
// non-matching listing costs a single element read. A nil record with nil
// error means "filtered out", not a failure.
func (e *Extractor) CheckAndExtract(page Page, duration models.Duration) (*models.ListingRecord, error) {
	dateText, err := page.Text(dateSelector)
	if err != nil {
		if errors.Is(err, ErrNoElement) {
			e.logger.Debug("Listing has no date element, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("date read failed: %w", err)
	}

	published, ok := parseBulgarianDateTime(dateText)
	if !ok {
		e.logger.Debug("Listing date %q not parseable, skipping", dateText)
		return nil, nil
	}
	if !isWithinDuration(published, e.now(), duration.OrDefault()) {
		e.logger.Debug("Listing dated %s outside %s window, skipping", published.Format("2006-01-02 15:04"), duration.OrDefault())
		return nil, nil
	}

	return e.extract(page, dateText)
}

// extract performs the full field read and normalization.
func (e *Extractor) extract(page Page, dateText string) (*models.ListingRecord, error) {
	// Expand the truncated description if the toggle is present.
	if err := page.Click(seeMoreSelector); err != nil && !errors.Is(err, ErrNoElement) {
		e.logger.Warn("Description expand failed: %v", err)
	}

	title, err := e.textOrEmpty(page, titleSelector)
	if err != nil {
		return nil, err
	}
	price, err := e.textOrEmpty(page, priceSelector)
	if err != nil {
		return nil, err
	}
	location, err := e.textOrEmpty(page, locationSelector)
	if err != nil {
		return nil, err
	}
	description, err := e.textOrEmpty(page, descriptionSelector)
	if err != nil {
		return nil, err
	}

	imgLink, err := page.Attr(ogImageSelector, "content")
	if err != nil && !errors.Is(err, ErrNoElement) {
		return nil, fmt.Errorf("image meta read failed: %w", err)
	}

	// The final resolved URL is the canonical link, surviving any redirects
	// the site applied on the way in.
	link, err := page.URL()
	if err != nil {
		return nil, fmt.Errorf("listing URL read failed: %w", err)
	}

	record := services.NormalizeListing(models.ListingRecord{
		Title:       title,
		Price:       price,
		Location:    location,
		Date:        dateText,
		Link:        link,
		ImgLink:     imgLink,
		Description: description,
	}, false)
	return &record, nil
}

// textOrEmpty reads an element's text, treating absence as empty rather
// than failure. The site legitimately omits some detail fields.
func (e *Extractor) textOrEmpty(page Page, selector string) (string, error) {
	text, err := page.Text(selector)
	if err != nil {
		if errors.Is(err, ErrNoElement) {
			return "", nil
		}
		return "", fmt.Errorf("read of %q failed: %w", selector, err)
	}
	return text, nil
}
