package engine

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// SimilarityFunc scores how alike two normalized names are. Implementations
// must return a value in [0,1], where 1 means identical. The resolver
// compares scores against the cutoff inclusively, so any equivalent
// algorithm can be substituted without touching the matching logic.
type SimilarityFunc func(a, b string) float64

// unitCostOptions counts every insert, delete and substitution as one edit.
// The library default weighs substitutions as two, which would push scores
// below 0 and punish single-letter typos twice.
var unitCostOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// LevenshteinRatio is the default SimilarityFunc: one minus the edit
// distance divided by the length of the longer string. With unit edit costs
// the distance never exceeds the longer length, so the result stays in
// [0,1]. Two empty strings score 1.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}

	distance := levenshtein.DistanceForStrings(ra, rb, unitCostOptions)
	return 1 - float64(distance)/float64(longest)
}
