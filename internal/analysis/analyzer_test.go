package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/rcliao/qalam/internal/model"
)

func sentenceOf(words int) string {
	return strings.TrimSpace(strings.Repeat("كلمة ", words)) + "."
}

func TestAnalyze_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		got := Analyze(in)
		if got.SentenceCount != 0 || got.WordCount != 0 || got.WeakPhraseCount != 0 ||
			got.AdverbCount != 0 || got.PassiveCount != 0 || got.LongSentenceCount != 0 ||
			got.VeryLongSentenceCount != 0 || got.GrammarCount != 0 {
			t.Errorf("Analyze(%q) = %+v, want zero counts", in, got)
		}
		if got.WeakPhrases == nil || got.Adverbs == nil || got.Passives == nil {
			t.Errorf("Analyze(%q) match lists should be empty, not nil", in)
		}
	}
}

func TestAnalyze_NoTerminator(t *testing.T) {
	got := Analyze("هذا نص بدون علامة ترقيم")
	if got.SentenceCount != 1 {
		t.Errorf("SentenceCount = %d, want 1", got.SentenceCount)
	}
	if got.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", got.WordCount)
	}
}

func TestAnalyze_SentenceCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"انتظر... ثم اكتب.", 4},
		{"!!!", 3},
		{"ماذا؟!", 2},
		{"نعم. لا", 2},
		{"نعم، لا", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Analyze(tt.text).SentenceCount; got != tt.want {
				t.Errorf("SentenceCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyze_SentenceLength(t *testing.T) {
	tests := []struct {
		name         string
		words        int
		wantLong     int
		wantVeryLong int
	}{
		{"at long threshold", 15, 0, 0},
		{"one over long", 16, 1, 0},
		{"at very long threshold", 20, 1, 0},
		{"one over very long", 21, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(sentenceOf(tt.words))
			if got.LongSentenceCount != tt.wantLong || got.VeryLongSentenceCount != tt.wantVeryLong {
				t.Errorf("long=%d veryLong=%d, want %d/%d",
					got.LongSentenceCount, got.VeryLongSentenceCount, tt.wantLong, tt.wantVeryLong)
			}
		})
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	text := "هو بصراحة كتب الكتاب بسرعة."
	got := Analyze(text)

	if got.WeakPhraseCount != 1 || got.WeakPhrases[0] != "بصراحة" {
		t.Errorf("weak phrases = %v, want [بصراحة]", got.WeakPhrases)
	}
	if got.AdverbCount != 1 || got.Adverbs[0] != "بسرعة" {
		t.Errorf("adverbs = %v, want [بسرعة]", got.Adverbs)
	}
	if got.PassiveCount != 0 {
		t.Errorf("passives = %v, want none", got.Passives)
	}
	if got.SentenceCount != 1 || got.WordCount != 5 {
		t.Errorf("sentences=%d words=%d, want 1/5", got.SentenceCount, got.WordCount)
	}
	if got.CharCount != 27 {
		t.Errorf("CharCount = %d, want 27", got.CharCount)
	}
}

func TestAnalyze_DuplicatesKept(t *testing.T) {
	got := Analyze("كتب بسرعة ثم قرأ بسرعة وتم الأمر. قد تم ذلك.")
	if got.AdverbCount != 2 {
		t.Errorf("AdverbCount = %d (%v), want 2", got.AdverbCount, got.Adverbs)
	}
	// "وتم" is not a whole word; "قد تم" wins over the nested "تم".
	if got.PassiveCount != 1 || got.Passives[0] != "قد تم" {
		t.Errorf("passives = %v, want [قد تم]", got.Passives)
	}
	if got.SentenceCount != 2 {
		t.Errorf("SentenceCount = %d, want 2", got.SentenceCount)
	}
}

func TestAnalyzer_Matches(t *testing.T) {
	text := "هو بصراحة كتب الكتاب بسرعة."
	got := Default().Matches(text)
	want := []LexicalMatch{
		{Kind: model.WeakPhrase, Match: Match{Text: "بصراحة", Start: 3, End: 9}},
		{Kind: model.Adverb, Match: Match{Text: "بسرعة", Start: 21, End: 26}},
	}
	if len(got) != len(want) {
		t.Fatalf("Matches = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAnalyzer_SentenceSpans(t *testing.T) {
	short := "جملة قصيرة."
	long := sentenceOf(16)
	veryLong := sentenceOf(21)
	text := short + " " + long + " " + veryLong

	spans := Default().SentenceSpans(text)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %+v", spans)
	}
	runes := []rune(text)
	if spans[0].Kind != model.LongSentence || string(runes[spans[0].Start:spans[0].End]) != long {
		t.Errorf("first span = %+v, want long sentence %q", spans[0], long)
	}
	if spans[1].Kind != model.VeryLongSentence || string(runes[spans[1].Start:spans[1].End]) != veryLong {
		t.Errorf("second span = %+v, want very long sentence", spans[1])
	}
}

func TestNewAnalyzer_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LongSentence, cfg.VeryLongSentence = 2, 3
	a, err := NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	got := a.Analyze("واحد اثنان ثلاثة. واحد اثنان ثلاثة أربعة.")
	if got.LongSentenceCount != 1 || got.VeryLongSentenceCount != 1 {
		t.Errorf("long=%d veryLong=%d, want 1/1", got.LongSentenceCount, got.VeryLongSentenceCount)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		long, vl  int
		wantError bool
	}{
		{"defaults", 15, 20, false},
		{"equal", 10, 10, false},
		{"zero long", 0, 20, true},
		{"negative very long", 15, -1, true},
		{"inverted", 20, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{LongSentence: tt.long, VeryLongSentence: tt.vl}
			err := cfg.Validate()
			if tt.wantError && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
	if _, err := NewAnalyzer(Config{LongSentence: 5, VeryLongSentence: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewAnalyzer with inverted thresholds: err = %v", err)
	}
}
