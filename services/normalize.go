package services

import (
	"regexp"
	"strings"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
)

// \p{Zs} keeps the non-breaking spaces the site puts inside prices in scope.
var whitespaceRegex = regexp.MustCompile(`[\s\p{Zs}]+`)

// NormalizeWhitespace collapses any run of whitespace (spaces, tabs,
// newlines) to a single space and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// PriceBeforeEUR keeps the part of a raw price before the first
// case-insensitive "EUR" token and strips all whitespace from it. Strings
// without "EUR" are treated as all numeric part. The transform is idempotent.
func PriceBeforeEUR(price string) string {
	before := price
	if idx := strings.Index(strings.ToUpper(price), "EUR"); idx >= 0 {
		before = price[:idx]
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(before, ""))
}

// NormalizeListing cleans every field of a raw record. Title, location, date
// and description get whitespace collapse; link and imgLink are only
// trimmed; price goes through PriceBeforeEUR. The date stays raw locale
// text, it is never converted to a machine timestamp.
//
// withEURSuffix re-appends the fixed "EUR" suffix to the price. The CSV
// secondary sink always writes the suffix; in-memory and API results never
// carry it.
func NormalizeListing(in models.ListingRecord, withEURSuffix bool) models.ListingRecord {
	price := PriceBeforeEUR(in.Price)
	if withEURSuffix {
		price += "EUR"
	}
	return models.ListingRecord{
		Title:       NormalizeWhitespace(in.Title),
		Price:       price,
		Location:    NormalizeWhitespace(in.Location),
		Date:        NormalizeWhitespace(in.Date),
		Link:        strings.TrimSpace(in.Link),
		ImgLink:     strings.TrimSpace(in.ImgLink),
		Description: NormalizeWhitespace(in.Description),
	}
}
