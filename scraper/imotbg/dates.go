package imotbg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timeRegex = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	dateRegex = regexp.MustCompile(`(?i)(\d{1,2})[\s\p{Zs}](януари|февруари|март|април|май|юни|юли|август|септември|октомври|ноември|декември),[\s\p{Zs}](\d{4})`)
)

var bulgarianMonths = []string{
	"януари",
	"февруари",
	"март",
	"април",
	"май",
	"юни",
	"юли",
	"август",
	"септември",
	"октомври",
	"ноември",
	"декември",
}

// parseBulgarianDateTime parses listing date strings like
// "Коригирана в 16:02 на 15 юли, 2025 год." or
// "Публикувана на 15 юли, 2025 год." into a local timestamp.
// A missing date pattern or unknown month name returns ok=false; that is a
// "no date" signal, not an error, and callers must exclude such listings from
// recency consideration. A missing time component defaults to 00:00.
func parseBulgarianDateTime(dateStr string) (time.Time, bool) {
	dateMatch := dateRegex.FindStringSubmatch(dateStr)
	if dateMatch == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(dateMatch[1])
	year, _ := strconv.Atoi(dateMatch[3])

	month := -1
	monthBg := strings.ToLower(dateMatch[2])
	for i, name := range bulgarianMonths {
		if name == monthBg {
			month = i
			break
		}
	}
	if month == -1 {
		return time.Time{}, false
	}

	hours, minutes := 0, 0
	if timeMatch := timeRegex.FindStringSubmatch(dateStr); timeMatch != nil {
		hours, _ = strconv.Atoi(timeMatch[1])
		minutes, _ = strconv.Atoi(timeMatch[2])
	}

	return time.Date(year, time.Month(month+1), day, hours, minutes, 0, 0, time.Local), true
}
