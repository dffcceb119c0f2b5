// Package timeline turns the free-text date notations found in housing
// project listings into calendar dates and derives the minimum occupation
// period milestone from them.
package timeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used in output records.
const DateLayout = "2006-01-02"

var quarterRe = regexp.MustCompile(`(\d)Q\s*(\d{4})`)

// quarterEndDay is the day used for each quarter's final month. These are
// fixed constants and do not consult the calendar.
var quarterEndDay = map[int]int{3: 31, 6: 30, 9: 30, 12: 31}

// textLayouts are tried in order against the whole trimmed string.
var textLayouts = []string{"2 Jan 2006", "Jan 2006"}

// unresolvedMarkers are the lower-cased values that mean "no date".
var unresolvedMarkers = map[string]bool{"": true, "cancelled": true, "nan": true}

// Date builds a UTC midnight time for a calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse reads one date-like string. It understands, in order:
//
//	"3Q 2027"      end of the quarter's final month
//	"04 Feb 2026"  day, abbreviated month, year
//	"Feb 2026"     first day of the month
//
// Anything else, including "cancelled" and "nan", reports ok=false. Parse
// never panics and never returns an error.
func Parse(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if unresolvedMarkers[strings.ToLower(s)] {
		return time.Time{}, false
	}

	if strings.Contains(s, "Q") {
		if t, ok := parseQuarter(s); ok {
			return t, true
		}
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseQuarter only looks at the first quarter-like token; an invalid
// quarter or year there is not retried further along the string.
func parseQuarter(s string) (time.Time, bool) {
	m := quarterRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	q, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if q < 1 || q > 4 || year < 1 {
		return time.Time{}, false
	}

	month := q * 3
	return Date(year, time.Month(month), quarterEndDay[month]), true
}

// Format renders t as an ISO date.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}
