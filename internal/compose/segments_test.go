package compose

import (
	"slices"
	"testing"

	"github.com/rcliao/qalam/internal/model"
)

func TestSegments_Nested(t *testing.T) {
	spans := []model.Span{
		{Start: 0, End: 10, Kind: model.LongSentence},
		{Start: 2, End: 5, Kind: model.Adverb},
		{Start: 4, End: 6, Kind: model.GrammarError},
	}
	got := Segments(10, spans)
	want := []model.Segment{
		{Start: 0, End: 2, Kinds: []model.Kind{model.LongSentence}},
		{Start: 2, End: 4, Kinds: []model.Kind{model.LongSentence, model.Adverb}},
		{Start: 4, End: 5, Kinds: []model.Kind{model.LongSentence, model.Adverb, model.GrammarError}},
		{Start: 5, End: 6, Kinds: []model.Kind{model.LongSentence, model.GrammarError}},
		{Start: 6, End: 10, Kinds: []model.Kind{model.LongSentence}},
	}
	if len(got) != len(want) {
		t.Fatalf("Segments = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Start != want[i].Start || got[i].End != want[i].End || !slices.Equal(got[i].Kinds, want[i].Kinds) {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSegments_GapsAndMerging(t *testing.T) {
	spans := []model.Span{
		{Start: 0, End: 2, Kind: model.Adverb},
		{Start: 2, End: 4, Kind: model.Adverb},
		{Start: 6, End: 8, Kind: model.Passive},
		{Start: 7, End: 20, Kind: model.Passive}, // out of range
	}
	got := Segments(10, spans)
	if len(got) != 2 {
		t.Fatalf("Segments = %+v, want 2 segments", got)
	}
	if got[0].Start != 0 || got[0].End != 4 {
		t.Errorf("adjacent same-kind spans should merge, got %+v", got[0])
	}
	if got[1].Start != 6 || got[1].End != 8 {
		t.Errorf("second segment = %+v", got[1])
	}
}

func TestSegments_Empty(t *testing.T) {
	if got := Segments(0, nil); len(got) != 0 {
		t.Errorf("Segments(nil) = %+v", got)
	}
}

func TestRenderHTML(t *testing.T) {
	text := "a <b>\nc"
	segs := []model.Segment{
		{Start: 2, End: 5, Kinds: []model.Kind{model.LongSentence, model.Adverb}},
	}
	got := RenderHTML(text, segs)
	want := `a <span class="hl-long-sentence hl-adverb">&lt;b&gt;</span><br>c`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}

func TestRenderHTML_Composed(t *testing.T) {
	text := "هو بصراحة كتب الكتاب بسرعة."
	spans := composeText(text)
	got := RenderHTML(text, Segments(len([]rune(text)), spans))
	want := `هو <span class="hl-weak-phrase">بصراحة</span> كتب الكتاب <span class="hl-adverb">بسرعة</span>.`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}
