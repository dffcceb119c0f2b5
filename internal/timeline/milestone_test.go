package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeMilestone(t *testing.T) {
	tests := []struct {
		name       string
		completion time.Time
		expiry     time.Time
		quarter    string
	}{
		{
			name:       "crosses two leap days",
			completion: Date(2023, time.December, 31),
			expiry:     Date(2028, time.December, 29),
			quarter:    "Q4 2028",
		},
		{
			name:       "mid year",
			completion: Date(2023, time.June, 15),
			expiry:     Date(2028, time.June, 13),
			quarter:    "Q2 2028",
		},
		{
			name:       "quarter boundary",
			completion: Date(2021, time.April, 1),
			expiry:     Date(2026, time.March, 31),
			quarter:    "Q1 2026",
		},
		{
			name:       "one leap day",
			completion: Date(2019, time.September, 30),
			expiry:     Date(2024, time.September, 28),
			quarter:    "Q3 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMilestone(tt.completion)
			assert.Equal(t, tt.completion, m.Completion)
			assert.Equal(t, tt.expiry, m.Expiry)
			assert.Equal(t, tt.quarter, m.Quarter)
			assert.Equal(t, float64(MOPDays), m.Expiry.Sub(m.Completion).Hours()/24)
		})
	}
}

func TestQuarterLabel(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		d := Date(2030, month, 10)
		want := map[time.Month]string{
			time.January: "Q1", time.February: "Q1", time.March: "Q1",
			time.April: "Q2", time.May: "Q2", time.June: "Q2",
			time.July: "Q3", time.August: "Q3", time.September: "Q3",
			time.October: "Q4", time.November: "Q4", time.December: "Q4",
		}[month]
		assert.Equal(t, want+" 2030", QuarterLabel(d))
	}
}
