package timeline

import (
	"fmt"
	"time"
)

// MOPDays is the minimum occupation period: five 365-day years. Leap days
// are deliberately not accounted for.
const MOPDays = 365 * 5

// UnknownQuarter labels a milestone that could not be computed.
const UnknownQuarter = "Unknown"

// Milestone is the minimum occupation period expiry derived from a
// completion date.
type Milestone struct {
	Completion time.Time
	Expiry     time.Time
	Quarter    string
}

// ComputeMilestone adds exactly MOPDays to completion.
func ComputeMilestone(completion time.Time) Milestone {
	expiry := completion.AddDate(0, 0, MOPDays)
	return Milestone{
		Completion: completion,
		Expiry:     expiry,
		Quarter:    QuarterLabel(expiry),
	}
}

// QuarterLabel renders t as "Q<n> <year>".
func QuarterLabel(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", q, t.Year())
}
