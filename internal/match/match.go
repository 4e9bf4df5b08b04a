// Package match scores free-text answers against accepted spelling
// variants. Album and song names tolerate minor typos through a
// Sørensen–Dice bigram coefficient; number tokens are matched exactly.
package match

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DefaultThreshold is the production similarity policy for album and song
// names. 1.0 would demand exact spelling.
const DefaultThreshold = 0.80

// dice is stateless after construction and safe for concurrent Compare calls.
var dice = metrics.NewSorensenDice()

// Similar reports whether a and b score at or above threshold on the
// normalized bigram overlap coefficient. Symmetric in its arguments.
func Similar(a, b string, threshold float64) bool {
	return strutil.Similarity(a, b, dice) >= threshold
}

// AnyVariant reports whether text is similar enough to any of the variants.
func AnyVariant(text string, variants []string, threshold float64) bool {
	for _, v := range variants {
		if Similar(text, v, threshold) {
			return true
		}
	}
	return false
}

// Exact reports whether text is exactly one of the variants. Used for
// number tokens, where bigram overlap on strings this short is meaningless.
func Exact(text string, variants []string) bool {
	for _, v := range variants {
		if text == v {
			return true
		}
	}
	return false
}
