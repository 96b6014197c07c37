// Package compose turns an analysis and the grammar provider's suggestions
// into one ordered, layered set of spans over the current text.
package compose

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rcliao/qalam/internal/analysis"
	"github.com/rcliao/qalam/internal/model"
)

// Compositor builds spans using an analyzer's thresholds and phrase lists.
// It holds no mutable state.
type Compositor struct {
	analyzer *analysis.Analyzer
}

// New returns a Compositor backed by a. A nil analyzer uses the default.
func New(a *analysis.Analyzer) *Compositor {
	if a == nil {
		a = analysis.Default()
	}
	return &Compositor{analyzer: a}
}

// Compose returns the spans for text ordered by layer, start, end and
// kind, with duplicates removed:
//
//   - sentence-length spans for every over-threshold sentence;
//   - lexical spans for every occurrence of each phrase recorded in res;
//   - grammar-error and non-standard-phrase spans for every occurrence of
//     each suggestion's quoted text.
//
// Suggestions whose text no longer occurs contribute nothing. Invalid
// suggestions are skipped.
func (c *Compositor) Compose(text string, res model.Analysis, suggestions []model.GrammarSuggestion) []model.Span {
	spans := c.analyzer.SentenceSpans(text)

	for _, k := range analysis.LexicalKinds {
		spans = append(spans, lexicalSpans(text, res.Matched(k), k)...)
	}

	for _, s := range suggestions {
		if s.Validate() != nil {
			continue
		}
		phrase, kind := s.Phrase()
		for _, occ := range Occurrences(text, phrase) {
			spans = append(spans, model.Span{Start: occ[0], End: occ[1], Kind: kind})
		}
	}

	return sortSpans(spans)
}

// lexicalSpans locates every whole-word occurrence of the distinct phrases
// in matched. Phrases are claimed longest first, so a phrase nested in a
// longer one of the same kind is not reported twice.
func lexicalSpans(text string, matched []string, kind model.Kind) []model.Span {
	if len(matched) == 0 {
		return nil
	}
	m := analysis.NewMatcher(matched)
	var spans []model.Span
	for _, hit := range m.FindAll(text) {
		spans = append(spans, model.Span{Start: hit.Start, End: hit.End, Kind: kind})
	}
	return spans
}

// Occurrences returns the rune offsets [start, end) of every
// non-overlapping occurrence of substr in text, scanning from the start.
// An empty substr has no occurrences.
func Occurrences(text, substr string) [][2]int {
	if substr == "" {
		return nil
	}
	n := utf8.RuneCountInString(substr)
	var (
		out     [][2]int
		pos     int
		runePos int
	)
	for {
		i := strings.Index(text[pos:], substr)
		if i < 0 {
			return out
		}
		start := runePos + utf8.RuneCountInString(text[pos:pos+i])
		out = append(out, [2]int{start, start + n})
		pos += i + len(substr)
		runePos = start + n
	}
}

func sortSpans(spans []model.Span) []model.Span {
	slices.SortFunc(spans, func(a, b model.Span) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return slices.Compact(spans)
}

var defaultCompositor = New(nil)

// Compose composes with the default analyzer.
func Compose(text string, res model.Analysis, suggestions []model.GrammarSuggestion) []model.Span {
	return defaultCompositor.Compose(text, res, suggestions)
}
