package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n\n  "} {
		if result := Chunk(in, DefaultOptions()); result != nil {
			t.Errorf("Chunk(%q) = %v, want nil", in, result)
		}
	}
}

func TestChunk_ShortContent(t *testing.T) {
	text := "  هذا نص قصير.  "
	result := Chunk(text, DefaultOptions())
	if len(result) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(result))
	}
	if result[0].Text != "هذا نص قصير." {
		t.Errorf("expected trimmed text, got %q", result[0].Text)
	}
	if result[0].Start != 2 || result[0].End != 14 {
		t.Errorf("offsets = %d..%d, want 2..14", result[0].Start, result[0].End)
	}
}

func TestChunk_OffsetsMatchText(t *testing.T) {
	para := strings.Repeat("هذه جملة عربية للاختبار. ", 12)
	text := para + "\n\n" + para + "\n\n" + para
	opts := Options{TargetSize: 400, MinSize: 50, MaxSize: 500}

	runes := []rune(text)
	result := Chunk(text, opts)
	if len(result) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(result))
	}
	prevEnd := 0
	for i, c := range result {
		if got := string(runes[c.Start:c.End]); got != c.Text {
			t.Errorf("chunk %d text does not match offsets", i)
		}
		if c.Start < prevEnd {
			t.Errorf("chunk %d overlaps previous", i)
		}
		if n := utf8.RuneCountInString(c.Text); n > opts.MaxSize {
			t.Errorf("chunk %d has %d runes, above MaxSize", i, n)
		}
		prevEnd = c.End
	}
}

func TestChunk_SplitsOnParagraphs(t *testing.T) {
	para := strings.Repeat("كلمة ", 60) // ~300 runes
	text := para + "\n\n" + para + "\n  \n" + para

	result := Chunk(text, Options{TargetSize: 400, MinSize: 100, MaxSize: 500})
	if len(result) != 3 {
		t.Fatalf("expected 3 paragraph chunks, got %d", len(result))
	}
}

func TestChunk_SplitsOnSentences(t *testing.T) {
	// One paragraph, no blank lines
	text := strings.Repeat("هذه جملة متوسطة الطول للاختبار فقط. ", 40)
	opts := Options{TargetSize: 300, MinSize: 50, MaxSize: 400}
	result := Chunk(text, opts)
	if len(result) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(result))
	}
	for i, c := range result[:len(result)-1] {
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("chunk %d should end at a sentence boundary: %q", i, c.Text[len(c.Text)-20:])
		}
	}
}

func TestChunk_HardSplitsLongSentence(t *testing.T) {
	text := strings.Repeat("كلمة ", 500) // one sentence, no terminators
	opts := Options{TargetSize: 200, MinSize: 50, MaxSize: 300}
	result := Chunk(text, opts)
	if len(result) < 5 {
		t.Fatalf("expected hard split, got %d chunks", len(result))
	}
	for i, c := range result {
		if strings.HasPrefix(c.Text, " ") || strings.HasSuffix(c.Text, " ") {
			t.Errorf("chunk %d not trimmed", i)
		}
		if n := utf8.RuneCountInString(c.Text); n > opts.MaxSize {
			t.Errorf("chunk %d has %d runes", i, n)
		}
	}
}

func TestChunk_MergesSmallTail(t *testing.T) {
	para := strings.Repeat("كلمة ", 70) // ~350 runes
	text := para + "\n\n" + "ذيل قصير."
	result := Chunk(text, Options{TargetSize: 300, MinSize: 100, MaxSize: 400})
	if len(result) != 1 {
		t.Errorf("expected tail merged into one chunk, got %d", len(result))
	}
}
