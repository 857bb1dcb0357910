package imotbg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/config"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// SearchForm fills the site's search form from a SearchCriteria and submits
// it. Every fill/select step is independently best-effort: the site's DOM
// omits some fields depending on the selected property type, so a missing
// field skips that step rather than failing the whole configuration.
type SearchForm struct {
	fields config.FieldMap
	logger *utils.Logger
}

func NewSearchForm(fields config.FieldMap, logger *utils.Logger) *SearchForm {
	return &SearchForm{fields: fields, logger: logger}
}

// DismissCookieBanner accepts the cookie-consent interstitial if it is
// shown. Absence is not an error.
func (f *SearchForm) DismissCookieBanner(page Page) {
	if err := page.Click(f.fields.CookieAcceptID); err != nil && !errors.Is(err, ErrNoElement) {
		f.logger.Warn("Cookie banner dismiss failed: %v", err)
	}
}

// Apply fills all criteria fields and submits the form.
func (f *SearchForm) Apply(page Page, criteria models.SearchCriteria) error {
	f.fillOptional(page, inputByName(f.fields.SquareMeters.LowLimit), criteria.AreaSqm.Min)
	f.fillOptional(page, inputByName(f.fields.SquareMeters.UpperLimit), criteria.AreaSqm.Max)

	f.fillOptional(page, inputByName(f.fields.Price.LowLimit), criteria.Price.Min)
	f.fillOptional(page, inputByName(f.fields.Price.UpperLimit), criteria.Price.Max)

	f.fillOptional(page, inputByName(f.fields.SearchedKeyword), strings.Join(criteria.Keywords, ","))

	f.selectRegions(page, criteria.Regions)

	if err := page.SelectValue(selectByName(f.fields.SortOrder), criteria.SortOrder); err != nil {
		if !errors.Is(err, ErrNoElement) {
			return fmt.Errorf("sort order selection failed: %w", err)
		}
		f.logger.Debug("Sort select %q not present, skipping", f.fields.SortOrder)
	}

	if err := page.Click(fmt.Sprintf(`input[value=%q]`, f.fields.SubmitValue)); err != nil {
		if errors.Is(err, ErrNoElement) {
			return fmt.Errorf("search submit button not found")
		}
		return fmt.Errorf("search submit failed: %w", err)
	}
	return nil
}

// fillOptional fills a named input, skipping silently when the field is not
// in the DOM.
func (f *SearchForm) fillOptional(page Page, selector, value string) {
	err := page.Fill(selector, value)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoElement):
		f.logger.Debug("Form field %q not present, skipping", selector)
	default:
		f.logger.Warn("Form fill for %q failed: %v", selector, err)
	}
}

// selectRegions injects one selectable option per requested region into the
// regions control and marks it selected. The native control does not
// pre-list every region, so entries must be added before they can be chosen.
// Regions keep their requested order.
func (f *SearchForm) selectRegions(page Page, regions []string) {
	selector := selectByName(f.fields.RegionsToSearchFor)
	for _, region := range regions {
		err := page.AddSelectedOption(selector, region)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoElement):
			f.logger.Debug("Regions select %q not present, skipping", f.fields.RegionsToSearchFor)
			return
		default:
			f.logger.Warn("Region %q selection failed: %v", region, err)
		}
	}
}

func inputByName(name string) string {
	return fmt.Sprintf(`input[name=%q]`, name)
}

func selectByName(name string) string {
	return fmt.Sprintf(`select[name=%q]`, name)
}
