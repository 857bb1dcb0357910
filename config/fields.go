package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldMap names the site's search form controls and the selectors the
// drivers depend on. The defaults match the live site; a YAML file can
// override individual entries when the site's markup drifts. The map is
// loaded once at startup and injected into the drivers, never read as
// ambient global state.
type FieldMap struct {
	SquareMeters struct {
		LowLimit   string `yaml:"low_limit"`
		UpperLimit string `yaml:"upper_limit"`
	} `yaml:"square_meters"`
	Price struct {
		LowLimit   string `yaml:"low_limit"`
		UpperLimit string `yaml:"upper_limit"`
	} `yaml:"price"`
	SearchedKeyword    string `yaml:"searched_keyword"`
	RegionsToSearchFor string `yaml:"regions_to_search_for"`
	SortOrder          string `yaml:"sort_order"`

	CookieAcceptID   string `yaml:"cookie_accept_id"`
	SubmitValue      string `yaml:"submit_value"`
	ListingAnchor    string `yaml:"listing_anchor"`
	PaginationAnchor string `yaml:"pagination_anchor"`
}

// DefaultFieldMap returns the compiled-in mapping for imot.bg.
func DefaultFieldMap() FieldMap {
	var m FieldMap
	m.SquareMeters.LowLimit = "f7"
	m.SquareMeters.UpperLimit = "f8"
	m.Price.LowLimit = "f9"
	m.Price.UpperLimit = "f10"
	m.SearchedKeyword = "f11"
	m.RegionsToSearchFor = "rs"
	m.SortOrder = "sort"
	m.CookieAcceptID = "#cookiescript_accept"
	m.SubmitValue = "Т Ъ Р С И"
	m.ListingAnchor = ".ads2023 .zaglavie a.title.saveSlink"
	m.PaginationAnchor = ".pagination a.saveSlink:not(.next):not(.prev)"
	return m
}

// LoadFieldMap returns the defaults, overlaid with the YAML file at path when
// path is non-empty.
func LoadFieldMap(path string) (FieldMap, error) {
	m := DefaultFieldMap()
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("failed to read fields config: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse fields config: %w", err)
	}
	return m, nil
}
