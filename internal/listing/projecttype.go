package listing

import "strings"

// Project classifications as published by the housing board.
const (
	TypePrime     = "Prime"
	TypePlus      = "Plus"
	TypeNonMature = "Non-Mature"
	TypeMature    = "Mature"
	TypeStandard  = "Standard"
	TypeUnknown   = "Unknown"
)

// typeKeywords is checked in order; "non-mature" must precede "mature".
var typeKeywords = []struct {
	keyword string
	label   string
}{
	{"prime", TypePrime},
	{"plus", TypePlus},
	{"non-mature", TypeNonMature},
	{"mature", TypeMature},
	{"standard", TypeStandard},
}

// ClassifyType maps free-text project type to a known classification.
func ClassifyType(raw string) string {
	t := strings.ToLower(raw)
	for _, kw := range typeKeywords {
		if strings.Contains(t, kw.keyword) {
			return kw.label
		}
	}
	return TypeUnknown
}
