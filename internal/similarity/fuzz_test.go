package similarity

import (
	"math"
	"testing"
)

func FuzzSimilarity(f *testing.F) {
	f.Add("كتب", "كتاب", 0.5)
	f.Add("هو بصراحة كتب الكتاب بسرعة.", "هو كتب الكتاب", 0.8)
	f.Add("", "نص", 0.0)
	f.Add("abc", "abd", 1.0)

	f.Fuzz(func(t *testing.T, a, b string, threshold float64) {
		if math.IsNaN(threshold) {
			return
		}
		ab := Similarity(a, b)
		if math.IsNaN(ab) || ab < 0 || ab > 1 {
			t.Fatalf("Similarity(%q, %q) = %f", a, b, ab)
		}
		if ba := Similarity(b, a); math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("asymmetric: %f vs %f", ab, ba)
		}
		if got := IsSimilar(a, b, threshold); got != (ab >= threshold) {
			t.Fatalf("IsSimilar(%q, %q, %f) = %v, Similarity = %f", a, b, threshold, got, ab)
		}
	})
}
