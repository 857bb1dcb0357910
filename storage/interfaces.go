package storage

import "github.com/Nasko-Kurtakov/imot-bg-crawler/models"

// RecordSink receives records one at a time, as the crawl extracts them.
type RecordSink interface {
	Append(record models.ListingRecord) error
}

// ResultStore receives the full result sequence of a finished crawl.
type ResultStore interface {
	WriteAll(records []models.ListingRecord) error
}
