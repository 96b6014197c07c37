// Package similarity scores how alike two pieces of Arabic text are.
//
// The strategy is length-adaptive: short texts (under 50 runes once
// normalized) are compared by bounded edit distance, longer texts by a
// 60/40 blend of character trigram Jaccard and character-frequency
// cosine. All scores are in [0, 1] and never NaN.
package similarity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/qalam/internal/normalize"
)

const (
	// ShortTextLimit is the normalized rune length below which edit
	// distance is used.
	ShortTextLimit = 50

	// NgramSize is the n-gram length for the Jaccard measure.
	NgramSize = 3

	jaccardWeight = 0.6
	cosineWeight  = 0.4

	// boundFactor scales the longer length into the edit-distance bound.
	boundFactor = 0.5

	// lengthRatioFactor scales the threshold for the IsSimilar pre-filter.
	lengthRatioFactor = 0.7
)

// Similarity returns a score in [0, 1]. Identical inputs score 1, and any
// input that is empty (after trimming, or after normalization) scores 0.
// The emptiness check runs before the equality check, so two blank inputs
// score 0 rather than 1.
func Similarity(a, b string) float64 {
	na, nb, score, done := prepare(a, b)
	if done {
		return score
	}
	return compare(na, nb)
}

// IsSimilar reports whether Similarity(a, b) >= threshold. Pairs whose
// lengths alone rule out the threshold return early.
func IsSimilar(a, b string, threshold float64) bool {
	na, nb, score, done := prepare(a, b)
	if done {
		return score >= threshold
	}

	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	minLen, maxLen := min(la, lb), max(la, lb)

	// Only the edit-distance branch has a score bounded by the lengths;
	// the trigram/cosine blend can rate a repeated text highly.
	if maxLen < ShortTextLimit &&
		float64(minLen)/float64(maxLen) < threshold*lengthRatioFactor &&
		maxShortScore(minLen, maxLen) < threshold {
		return false
	}
	return compare(na, nb) >= threshold
}

// prepare handles the early-return cases shared by Similarity and
// IsSimilar. Blank input is rejected before raw equality is tested. When done is false, na and nb are the non-empty, distinct
// normalized forms.
func prepare(a, b string) (na, nb string, score float64, done bool) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return "", "", 0, true
	}
	if a == b {
		return "", "", 1, true
	}
	na, nb = normalize.Normalize(a), normalize.Normalize(b)
	if na == "" || nb == "" {
		return "", "", 0, true
	}
	if na == nb {
		return "", "", 1, true
	}
	return na, nb, 0, false
}

func compare(na, nb string) float64 {
	ra, rb := []rune(na), []rune(nb)
	maxLen := max(len(ra), len(rb))

	if maxLen < ShortTextLimit {
		bound := int(math.Floor(float64(maxLen) * boundFactor))
		return shortScore(boundedDistance(ra, rb, bound), maxLen)
	}

	score := jaccardWeight*jaccard(ra, rb, NgramSize) + cosineWeight*cosine(ra, rb)
	return clamp01(score)
}

func shortScore(distance, maxLen int) float64 {
	return math.Max(0, 1-float64(distance)/float64(maxLen))
}

// maxShortScore is the best edit-distance score two strings of the given
// lengths can reach: the distance is at least the length difference, and
// anything past the bound is reported as bound+1.
func maxShortScore(minLen, maxLen int) float64 {
	bound := int(math.Floor(float64(maxLen) * boundFactor))
	if d := maxLen - minLen; d <= bound {
		return shortScore(d, maxLen)
	}
	return shortScore(bound+1, maxLen)
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
