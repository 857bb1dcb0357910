package imotbg

import (
	"errors"
	"fmt"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/config"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// Pagination discovers how many result pages exist and advances between
// them. The site renders its page-number links twice (top and bottom of the
// results), so the raw matched-element count double-counts and must be
// halved to get the true page count.
type Pagination struct {
	fields config.FieldMap
	logger *utils.Logger
}

func NewPagination(fields config.FieldMap, logger *utils.Logger) *Pagination {
	return &Pagination{fields: fields, logger: logger}
}

// pageCountFromLinks derives the true page count from the raw number of
// matched pagination links.
func pageCountFromLinks(rawLinkCount int) int {
	return rawLinkCount / 2
}

// TotalPages counts the pagination links that are neither next nor previous
// controls and halves the result.
func (p *Pagination) TotalPages(page Page) (int, error) {
	raw, err := page.Count(p.fields.PaginationAnchor)
	if err != nil {
		return 0, fmt.Errorf("pagination link count failed: %w", err)
	}
	return pageCountFromLinks(raw), nil
}

// Advance activates the n-th page link from the second, de-duplicated half
// of the pagination links. A missing target link (already on the last page)
// is a no-op.
func (p *Pagination) Advance(page Page, n int) error {
	raw, err := page.Count(p.fields.PaginationAnchor)
	if err != nil {
		return fmt.Errorf("pagination link count failed: %w", err)
	}
	idx := pageCountFromLinks(raw) + n
	if err := page.ClickNth(p.fields.PaginationAnchor, idx); err != nil {
		if errors.Is(err, ErrNoElement) {
			p.logger.Debug("No pagination link at index %d, staying on current page", n)
			return nil
		}
		return fmt.Errorf("pagination advance failed: %w", err)
	}
	return nil
}
