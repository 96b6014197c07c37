package analysis

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/qalam/internal/model"
)

// Terminators are the runes that close a sentence. The comma (Arabic or
// Latin) is not one of them.
const Terminators = ".؟!"

var terminator = regexp.MustCompile(`[.؟!]`)

// Sentences yields the sentences of text in order. Each terminator closes
// one sentence together with the body before it, so "..." is three
// sentences with empty bodies. A trailing fragment with content is the
// last. The sequence may be ranged over any number of times.
func Sentences(text string) iter.Seq[model.Sentence] {
	return func(yield func(model.Sentence) bool) {
		var (
			pos     int // byte offset of the current sentence
			runePos int // rune offset of pos
		)
		for pos < len(text) {
			end := len(text)
			if loc := terminator.FindStringIndex(text[pos:]); loc != nil {
				end = pos + loc[1]
			} else if strings.TrimSpace(text[pos:]) == "" {
				return
			}
			raw := text[pos:end]
			if !yield(newSentence(raw, runePos)) {
				return
			}
			pos, runePos = end, runePos+utf8.RuneCountInString(raw)
		}
	}
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func newSentence(raw string, offset int) model.Sentence {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	start := offset + utf8.RuneCountInString(raw) - utf8.RuneCountInString(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	return model.Sentence{
		Text:      trimmed,
		Start:     start,
		End:       start + utf8.RuneCountInString(trimmed),
		WordCount: CountWords(trimmed),
	}
}
