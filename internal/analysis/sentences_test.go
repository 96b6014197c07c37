package analysis

import (
	"testing"

	"github.com/rcliao/qalam/internal/model"
)

func collect(text string) []model.Sentence {
	var out []model.Sentence
	for s := range Sentences(text) {
		out = append(out, s)
	}
	return out
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []model.Sentence
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"no terminator", "هذا نص", []model.Sentence{
			{Text: "هذا نص", Start: 0, End: 6, WordCount: 2},
		}},
		{"three sentences", "أين أنت؟ أنا هنا. حسنا", []model.Sentence{
			{Text: "أين أنت؟", Start: 0, End: 8, WordCount: 2},
			{Text: "أنا هنا.", Start: 9, End: 17, WordCount: 2},
			{Text: "حسنا", Start: 18, End: 22, WordCount: 1},
		}},
		{"comma is not a terminator", "نعم، لا", []model.Sentence{
			{Text: "نعم، لا", Start: 0, End: 7, WordCount: 2},
		}},
		{"terminator run", "ماذا؟! حقا", []model.Sentence{
			{Text: "ماذا؟", Start: 0, End: 5, WordCount: 1},
			{Text: "!", Start: 5, End: 6, WordCount: 1},
			{Text: "حقا", Start: 7, End: 10, WordCount: 1},
		}},
		{"ellipsis", "انتظر... ثم اكتب.", []model.Sentence{
			{Text: "انتظر.", Start: 0, End: 6, WordCount: 1},
			{Text: ".", Start: 6, End: 7, WordCount: 1},
			{Text: ".", Start: 7, End: 8, WordCount: 1},
			{Text: "ثم اكتب.", Start: 9, End: 17, WordCount: 2},
		}},
		{"trailing whitespace dropped", "نعم.  \n", []model.Sentence{
			{Text: "نعم.", Start: 0, End: 4, WordCount: 1},
		}},
		{"punctuation only", "...", []model.Sentence{
			{Text: ".", Start: 0, End: 1, WordCount: 1},
			{Text: ".", Start: 1, End: 2, WordCount: 1},
			{Text: ".", Start: 2, End: 3, WordCount: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sentences %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSentences_Restartable(t *testing.T) {
	seq := Sentences("واحد. اثنان. ثلاثة.")
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 3 || second != 3 {
		t.Errorf("counts = %d, %d; want 3, 3", first, second)
	}
}

func TestSentences_EarlyBreak(t *testing.T) {
	n := 0
	for range Sentences("واحد. اثنان. ثلاثة.") {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterated %d times after break, want 1", n)
	}
}
