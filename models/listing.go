package models

// Duration names a recency window relative to "now". The day-based windows
// (today, yesterday) align to local calendar midnights; the hour-based ones
// are continuous spans.
type Duration string

const (
	DurationToday     Duration = "today"
	DurationYesterday Duration = "yesterday"
	DurationLast2h    Duration = "last2h"
	DurationLast6h    Duration = "last6h"
	DurationLast24h   Duration = "last24h"
	DurationLast48h   Duration = "last48h"
)

// OrDefault resolves an absent or unrecognized duration to last48h.
func (d Duration) OrDefault() Duration {
	switch d {
	case DurationToday, DurationYesterday, DurationLast2h, DurationLast6h, DurationLast24h:
		return d
	default:
		return DurationLast48h
	}
}

// Range is a numeric bound pair kept as text, exactly as the site's form
// inputs expect it. Callers are responsible for min <= max.
type Range struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// SearchCriteria describes one search against the listing site. Field names
// on the wire match the original search.json shape.
type SearchCriteria struct {
	PropertyType string   `json:"property_type" validate:"required"`
	AreaSqm      Range    `json:"area_sqm" validate:"required"`
	Price        Range    `json:"price" validate:"required"`
	SortOrder    string   `json:"sort_order" validate:"required"`
	Keywords     []string `json:"keywords"`
	Regions      []string `json:"regions"`
	Duration     Duration `json:"duration" validate:"omitempty,oneof=today yesterday last2h last6h last24h last48h"`
}

// ApplyDefaults fills the slices and the duration the way the request schema
// defaults them.
func (c *SearchCriteria) ApplyDefaults() {
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
	if c.Regions == nil {
		c.Regions = []string{}
	}
	c.Duration = c.Duration.OrDefault()
}

// CrawlOptions control a single crawl invocation.
type CrawlOptions struct {
	// Headless defaults to true when absent.
	Headless *bool `json:"headless"`
	// SaveCSV also appends each record to the CSV secondary sink.
	SaveCSV bool `json:"saveCsv"`
}

// IsHeadless resolves the headless flag with its default.
func (o CrawlOptions) IsHeadless() bool {
	if o.Headless == nil {
		return true
	}
	return *o.Headless
}

// ListingRecord is one extracted listing. All fields are normalized text;
// Date keeps the raw locale wording for display and Price is the bare numeric
// text without currency suffix. There is no identity field, so duplicates
// across runs are possible.
type ListingRecord struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Link        string `json:"link"`
	ImgLink     string `json:"imgLink"`
	Description string `json:"description"`
}
