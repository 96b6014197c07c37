package similarity

import (
	"math"
	"strings"
	"testing"
)

func TestSimilarity(t *testing.T) {
	long := strings.Repeat("الكتابة الواضحة تحتاج إلى مراجعة دقيقة ", 2)
	tests := []struct {
		name     string
		a, b     string
		expected float64
		delta    float64
	}{
		{"identical", "مرحبا بالعالم", "مرحبا بالعالم", 1.0, 0},
		{"identical after normalization", "كَتَبَ الطالبُ", "كتب الطالب", 1.0, 0},
		{"alif folding", "أحمد", "احمد", 1.0, 0},
		{"empty left", "", "مرحبا", 0.0, 0},
		{"empty right", "مرحبا", "", 0.0, 0},
		{"both blank", "  ", "  ", 0.0, 0},
		{"both empty", "", "", 0.0, 0},
		{"whitespace only", "   ", "مرحبا", 0.0, 0},
		{"latin only", "hello", "world", 0.0, 0},
		{"one substitution", "كتب", "كتاب", 0.75, 0.001},
		{"beyond bound", "قلم", "سيارة كبيرة", 1 - 6.0/11.0, 0.001},
		{"long near duplicate", long, long + "جدا", 0.9, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("Similarity(%q, %q) = %f, want %f (±%f)", tt.a, tt.b, got, tt.expected, tt.delta)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "كتب", 3},
		{"كتب", "", 3},
		{"كتب", "كتب", 0},
		{"كتب", "كتاب", 1},
		{"kitten", "sitting", 3},
		{"مدرسة", "مدرسه", 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBoundedLevenshtein(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		bound int
		want  int
	}{
		{"within bound", "kitten", "sitting", 3, 3},
		{"exceeds bound", "kitten", "sitting", 2, 3},
		{"length difference", "ab", "abcdef", 2, 3},
		{"zero bound equal", "abc", "abc", 0, 0},
		{"zero bound different", "abc", "abd", 0, 1},
		{"unbounded", "abc", "xyz", -1, 3},
		{"empty side", "", "abcd", 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundedLevenshtein(tt.a, tt.b, tt.bound); got != tt.want {
				t.Errorf("BoundedLevenshtein(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.bound, got, tt.want)
			}
			if got := BoundedLevenshtein(tt.b, tt.a, tt.bound); got != tt.want {
				t.Errorf("BoundedLevenshtein(%q, %q, %d) = %d, want %d (swapped)", tt.b, tt.a, tt.bound, got, tt.want)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	if got := Jaccard("abc", "abc", 3); got != 1 {
		t.Errorf("Jaccard(identical) = %f, want 1", got)
	}
	if got := Jaccard("", "abc", 3); got != 0 {
		t.Errorf("Jaccard(empty) = %f, want 0", got)
	}
	// "ab" -> {"  a", " ab", "ab ", "b  "}; "ac" -> {"  a", " ac", "ac ", "c  "}
	if got := Jaccard("ab", "ac", 3); math.Abs(got-1.0/7.0) > 1e-9 {
		t.Errorf("Jaccard(ab, ac) = %f, want %f", got, 1.0/7.0)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "abc", "abc", 1},
		{"anagram", "abc", "cba", 1},
		{"disjoint", "aaa", "bbb", 0},
		{"empty", "", "abc", 0},
		{"partial", "ab", "a", 1 / math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Cosine(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

var samples = []string{
	"",
	" ",
	"hello",
	"كتب",
	"كتاب",
	"كَتَبَ",
	"هو بصراحة كتب الكتاب بسرعة.",
	"هو كتب الكتاب",
	"هذا نص بدون علامة ترقيم",
	"المدرسة الكبيرة في المدينة القديمة",
	"المدرسه الكبيره في المدينه القديمه",
	strings.Repeat("ب", 10),
	strings.Repeat("ب", 49),
	strings.Repeat("ب", 60),
	strings.Repeat("تم إنجاز العمل ", 5),
	strings.Repeat("تم إنجاز العمل ", 20),
	strings.Repeat("الكتابة الواضحة تحتاج إلى مراجعة دقيقة ", 3),
}

func TestSimilarity_Properties(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			ab, ba := Similarity(a, b), Similarity(b, a)
			if math.IsNaN(ab) || ab < 0 || ab > 1 {
				t.Fatalf("Similarity(%q, %q) = %f, out of range", a, b, ab)
			}
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("not symmetric: Similarity(%q, %q) = %f, reversed %f", a, b, ab, ba)
			}
		}
		if strings.TrimSpace(a) != "" {
			if got := Similarity(a, a); got != 1 {
				t.Errorf("Similarity(%q, itself) = %f, want 1", a, got)
			}
		}
		if got := Similarity(a, ""); got != 0 {
			t.Errorf("Similarity(%q, \"\") = %f, want 0", a, got)
		}
	}
}

func TestIsSimilar_MatchesSimilarity(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			score := Similarity(a, b)
			for i := 0; i <= 20; i++ {
				threshold := float64(i) / 20
				if got, want := IsSimilar(a, b, threshold), score >= threshold; got != want {
					t.Errorf("IsSimilar(%q, %q, %.2f) = %v, Similarity = %f", a, b, threshold, got, score)
				}
			}
		}
	}
}

func TestMaxShortScore_IsUpperBound(t *testing.T) {
	for maxLen := 1; maxLen < ShortTextLimit; maxLen++ {
		for minLen := 1; minLen <= maxLen; minLen++ {
			a := strings.Repeat("ا", minLen)
			b := strings.Repeat("ا", maxLen)
			if got, bound := Similarity(a, b), maxShortScore(minLen, maxLen); got > bound+1e-12 {
				t.Fatalf("lengths %d/%d: Similarity = %f exceeds bound %f", minLen, maxLen, got, bound)
			}
		}
	}
}

func BenchmarkSimilarity_Short(b *testing.B) {
	x, y := "هو بصراحة كتب الكتاب بسرعة.", "هو كتب الكتاب بسرعة كبيرة."
	for b.Loop() {
		Similarity(x, y)
	}
}

func BenchmarkSimilarity_Long(b *testing.B) {
	x := strings.Repeat("الكتابة الواضحة تحتاج إلى مراجعة دقيقة ", 20)
	y := strings.Repeat("الكتابة الجيدة تحتاج إلى مراجعة متأنية ", 20)
	for b.Loop() {
		Similarity(x, y)
	}
}
