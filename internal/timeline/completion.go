package timeline

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DaysPerMonth is the average month length used for every month-based offset.
const DaysPerMonth = 30.44

// maxYear bounds derived dates to what the output format can express.
const maxYear = 9999

var digitsRe = regexp.MustCompile(`\d+`)

// ResolveCompletion derives a construction completion date for one listing.
//
// The completion text is parsed first. If that fails and the text mentions
// "month", the largest number in it is taken as a month count and added to
// the launch date (months * 30.44 days, rounded down). No other fallback is
// attempted.
func ResolveCompletion(completionRaw, launchRaw string) (time.Time, bool) {
	if t, ok := Parse(completionRaw); ok {
		return t, true
	}

	if !strings.Contains(strings.ToLower(completionRaw), "month") {
		return time.Time{}, false
	}

	months, ok := maxMonths(completionRaw)
	if !ok {
		return time.Time{}, false
	}

	launch, ok := Parse(launchRaw)
	if !ok {
		return time.Time{}, false
	}

	days := math.Floor(float64(months) * DaysPerMonth)
	if days > float64(maxYear*366) {
		return time.Time{}, false
	}
	t := launch.AddDate(0, 0, int(days))
	if t.Year() > maxYear {
		return time.Time{}, false
	}
	return t, true
}

// maxMonths returns the largest digit run in s.
func maxMonths(s string) (int, bool) {
	best, found := 0, false
	for _, run := range digitsRe.FindAllString(s, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			// Longer than an int can hold; certainly not a usable month count.
			return 0, false
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}
