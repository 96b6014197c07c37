package similarity

import (
	"math"
	"slices"
	"strings"
)

// Jaccard returns the Jaccard index of the padded character n-gram sets
// of a and b. Inputs are compared as given; callers normalize first.
func Jaccard(a, b string, n int) float64 {
	if n <= 0 {
		n = NgramSize
	}
	return jaccard([]rune(a), []rune(b), n)
}

// Cosine returns the cosine similarity of the character-frequency vectors
// of a and b.
func Cosine(a, b string) float64 {
	return cosine([]rune(a), []rune(b))
}

// ngrams collects every length-n window of s padded with n-1 spaces on
// each side, so edge n-grams are captured.
func ngrams(s []rune, n int) map[string]struct{} {
	pad := []rune(strings.Repeat(" ", n-1))
	padded := make([]rune, 0, len(s)+2*len(pad))
	padded = append(padded, pad...)
	padded = append(padded, s...)
	padded = append(padded, pad...)

	set := make(map[string]struct{}, len(padded))
	for i := 0; i+n <= len(padded); i++ {
		set[string(padded[i:i+n])] = struct{}{}
	}
	return set
}

func jaccard(a, b []rune, n int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ga, gb := ngrams(a, n), ngrams(b, n)
	if len(ga) > len(gb) {
		ga, gb = gb, ga
	}
	shared := 0
	for g := range ga {
		if _, ok := gb[g]; ok {
			shared++
		}
	}
	union := len(ga) + len(gb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func frequencies(s []rune) map[rune]int64 {
	freq := make(map[rune]int64, len(s))
	for _, r := range s {
		freq[r]++
	}
	return freq
}

// cosine accumulates in integers over a sorted alphabet, so the result
// does not depend on map iteration order or argument order.
func cosine(a, b []rune) float64 {
	fa, fb := frequencies(a), frequencies(b)

	alphabet := make([]rune, 0, len(fa)+len(fb))
	for r := range fa {
		alphabet = append(alphabet, r)
	}
	for r := range fb {
		if _, ok := fa[r]; !ok {
			alphabet = append(alphabet, r)
		}
	}
	slices.Sort(alphabet)

	var dot, normA, normB int64
	for _, r := range alphabet {
		ca, cb := fa[r], fb[r]
		dot += ca * cb
		normA += ca * ca
		normB += cb * cb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(float64(dot) / (math.Sqrt(float64(normA)) * math.Sqrt(float64(normB))))
}
