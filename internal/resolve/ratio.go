package resolve

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff-Obershelp similarity of a and b, compared
// character by character: 2*M / T, where M counts characters in matching
// blocks and T is the combined length. Two empty strings are identical (1.0).
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
