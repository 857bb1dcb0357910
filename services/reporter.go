package services

import (
	"fmt"
	"sort"
	"strings"
)

// PrintInsightReport formats and prints the insight report to terminal
func PrintInsightReport(report *InsightReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("RECENT LISTINGS CRAWL SUMMARY ", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n OVERVIEW\n%s\n", thin)
	fmt.Printf("  Matching Listings       : %d\n", report.TotalListings)
	fmt.Printf("  With Numeric Price      : %d\n", report.PricedListings)
	if report.PricedListings > 0 {
		fmt.Printf("  Average Price           : %.0f EUR\n", report.AveragePrice)
		fmt.Printf("  Minimum Price           : %.0f EUR\n", report.MinPrice)
		fmt.Printf("  Maximum Price           : %.0f EUR\n", report.MaxPrice)
	}

	if len(report.ListingsByLocation) > 0 {
		fmt.Printf("\n LISTINGS PER LOCATION\n%s\n", thin)
		// Sort by count descending
		type locCount struct {
			loc   string
			count int
		}
		var locs []locCount
		for loc, cnt := range report.ListingsByLocation {
			locs = append(locs, locCount{loc, cnt})
		}
		sort.Slice(locs, func(i, j int) bool {
			return locs[i].count > locs[j].count
		})
		for _, lc := range locs {
			fmt.Printf("  %-35s %3d\n", truncate(lc.loc, 35)+":", lc.count)
		}
	}

	fmt.Printf("\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
