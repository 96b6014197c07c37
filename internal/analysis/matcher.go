package analysis

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is one phrase occurrence. Start and End are rune offsets.
type Match struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Matcher finds whole-word occurrences of a fixed phrase list,
// case-insensitively. It is immutable and safe for concurrent use.
type Matcher struct {
	any    *regexp.Regexp   // alternation of every phrase, longest first
	phrase []*regexp.Regexp // each phrase anchored at the start, longest first
}

// NewMatcher compiles phrases. Blank and duplicate phrases are ignored; an
// empty list yields a matcher that never matches.
func NewMatcher(phrases []string) *Matcher {
	seen := make(map[string]bool, len(phrases))
	var list []string
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		list = append(list, p)
	}
	if len(list) == 0 {
		return &Matcher{}
	}

	slices.SortFunc(list, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	m := &Matcher{phrase: make([]*regexp.Regexp, len(list))}
	quoted := make([]string, len(list))
	for i, p := range list {
		quoted[i] = regexp.QuoteMeta(p)
		m.phrase[i] = regexp.MustCompile(`(?i)\A(?:` + quoted[i] + `)`)
	}
	m.any = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	return m
}

// FindAll returns every non-overlapping word-bounded match in scan order.
func (m *Matcher) FindAll(text string) []Match {
	if m.any == nil || text == "" {
		return nil
	}

	var (
		matches []Match
		pos     int // byte offset of the scan
		runePos int // rune offset of pos
	)
	for pos < len(text) {
		loc := m.any.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		runeStart := runePos + utf8.RuneCountInString(text[pos:start])

		if end, ok := m.matchAt(text, start); ok {
			matches = append(matches, Match{
				Text:  text[start:end],
				Start: runeStart,
				End:   runeStart + utf8.RuneCountInString(text[start:end]),
			})
			pos, runePos = end, matches[len(matches)-1].End
			continue
		}

		// No whole-word phrase starts here; resume one rune later.
		_, size := utf8.DecodeRuneInString(text[start:])
		pos, runePos = start+size, runeStart+1
	}
	return matches
}

// MatchCount returns len(FindAll(text)).
func (m *Matcher) MatchCount(text string) int {
	return len(m.FindAll(text))
}

// matchAt returns the end of the longest phrase that starts at start and
// is bounded on both sides.
func (m *Matcher) matchAt(text string, start int) (int, bool) {
	if !leftBoundary(text, start) {
		return 0, false
	}
	rest := text[start:]
	for _, re := range m.phrase {
		loc := re.FindStringIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}
		if end := start + loc[1]; rightBoundary(text, end) {
			return end, true
		}
	}
	return 0, false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '_'
}

func leftBoundary(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func rightBoundary(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}
