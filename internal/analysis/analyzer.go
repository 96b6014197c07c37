// Package analysis implements the rule-based pass over a text: sentence
// segmentation, sentence-length flags and lexical pattern counts.
//
// Everything here is pure. An Analyzer is immutable once built and may be
// shared between goroutines.
package analysis

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rcliao/qalam/internal/model"
)

// LexicalKinds are the span kinds produced by phrase matching, in the
// order the analyzer scans them.
var LexicalKinds = []model.Kind{model.WeakPhrase, model.Adverb, model.Passive}

// LexicalMatch is a phrase match tagged with its kind.
type LexicalMatch struct {
	Kind model.Kind `json:"kind"`
	Match
}

// Analyzer scans text with a fixed configuration.
type Analyzer struct {
	cfg      Config
	matchers map[model.Kind]*Matcher
}

// NewAnalyzer validates cfg and compiles its phrase lists.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{cfg: cfg, matchers: make(map[model.Kind]*Matcher, len(LexicalKinds))}
	for _, k := range LexicalKinds {
		a.matchers[k] = NewMatcher(cfg.Lexicon.Phrases(k))
	}
	return a, nil
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Matcher returns the compiled matcher for a lexical kind, or nil.
func (a *Analyzer) Matcher(k model.Kind) *Matcher {
	return a.matchers[k]
}

// Analyze counts words, sentences, sentence-length flags and lexical
// matches. It never fails; empty input yields zero counts and empty lists.
// GrammarCount is always 0.
func (a *Analyzer) Analyze(text string) model.Analysis {
	res := model.Analysis{
		WordCount:   CountWords(text),
		CharCount:   utf8.RuneCountInString(text),
		Adverbs:     []string{},
		Passives:    []string{},
		WeakPhrases: []string{},
	}
	if strings.TrimSpace(text) == "" {
		return res
	}

	// Content with no terminator comes back as a single trailing sentence.
	for s := range Sentences(text) {
		res.SentenceCount++
		switch k, _ := a.flag(s.WordCount); {
		case k == model.VeryLongSentence:
			res.VeryLongSentenceCount++
		case k == model.LongSentence:
			res.LongSentenceCount++
		}
	}

	for _, k := range LexicalKinds {
		for _, m := range a.matchers[k].FindAll(text) {
			switch k {
			case model.WeakPhrase:
				res.WeakPhrases = append(res.WeakPhrases, m.Text)
			case model.Adverb:
				res.Adverbs = append(res.Adverbs, m.Text)
			case model.Passive:
				res.Passives = append(res.Passives, m.Text)
			}
		}
	}
	res.WeakPhraseCount = len(res.WeakPhrases)
	res.AdverbCount = len(res.Adverbs)
	res.PassiveCount = len(res.Passives)
	return res
}

// Matches returns every lexical match in text, grouped by kind in
// LexicalKinds order and in scan order within a kind.
func (a *Analyzer) Matches(text string) []LexicalMatch {
	var out []LexicalMatch
	for _, k := range LexicalKinds {
		for _, m := range a.matchers[k].FindAll(text) {
			out = append(out, LexicalMatch{Kind: k, Match: m})
		}
	}
	return out
}

// SentenceSpans returns a LongSentence or VeryLongSentence span for every
// sentence over the thresholds.
func (a *Analyzer) SentenceSpans(text string) []model.Span {
	var spans []model.Span
	for s := range Sentences(text) {
		if k, ok := a.flag(s.WordCount); ok && s.End > s.Start {
			spans = append(spans, model.Span{Start: s.Start, End: s.End, Kind: k})
		}
	}
	return spans
}

func (a *Analyzer) flag(words int) (model.Kind, bool) {
	switch {
	case words > a.cfg.VeryLongSentence:
		return model.VeryLongSentence, true
	case words > a.cfg.LongSentence:
		return model.LongSentence, true
	}
	return 0, false
}

var (
	defaultOnce     sync.Once
	defaultAnalyzer *Analyzer
)

// Default returns the analyzer built from DefaultConfig.
func Default() *Analyzer {
	defaultOnce.Do(func() {
		a, err := NewAnalyzer(DefaultConfig())
		if err != nil {
			panic("analysis: default config: " + err.Error())
		}
		defaultAnalyzer = a
	})
	return defaultAnalyzer
}

// Analyze runs the default analyzer.
func Analyze(text string) model.Analysis {
	return Default().Analyze(text)
}
