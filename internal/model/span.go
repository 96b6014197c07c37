// Package model defines the annotation and analysis data types.
package model

import (
	"fmt"
	"strings"
)

// Kind classifies an annotated span.
type Kind int

const (
	WeakPhrase Kind = iota
	Adverb
	Passive
	LongSentence
	VeryLongSentence
	GrammarError
	NonStandardPhrase
)

var kindNames = [...]string{
	WeakPhrase:        "weak-phrase",
	Adverb:            "adverb",
	Passive:           "passive-voice",
	LongSentence:      "long-sentence",
	VeryLongSentence:  "very-long-sentence",
	GrammarError:      "grammar-error",
	NonStandardPhrase: "non-standard-phrase",
}

// Kinds lists every kind in declaration order.
var Kinds = []Kind{WeakPhrase, Adverb, Passive, LongSentence, VeryLongSentence, GrammarError, NonStandardPhrase}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown span kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown span kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Layer is the stacking order of a kind when spans overlap.
// Higher layers render on top of lower ones.
type Layer int

const (
	LayerSentence Layer = iota // sentence-length flags
	LayerPattern               // lexical pattern matches
	LayerExternal              // grammar / non-standard phrases from the AI provider
)

// Layer returns the stacking layer of k.
func (k Kind) Layer() Layer {
	switch k {
	case LongSentence, VeryLongSentence:
		return LayerSentence
	case GrammarError, NonStandardPhrase:
		return LayerExternal
	default:
		return LayerPattern
	}
}

// Span is an annotated range of the source text. Start and End are rune
// offsets; End is exclusive.
type Span struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Kind  Kind `json:"kind"`
}

// Valid reports whether s fits inside a text of n runes.
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= n
}

// Less orders spans by layer, then position, then kind.
func (s Span) Less(o Span) bool {
	if ls, lo := s.Kind.Layer(), o.Kind.Layer(); ls != lo {
		return ls < lo
	}
	if s.Start != o.Start {
		return s.Start < o.Start
	}
	if s.End != o.End {
		return s.End < o.End
	}
	return s.Kind < o.Kind
}

// Segment is a maximal range of text that carries the same set of kinds.
type Segment struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kinds []Kind `json:"kinds"`
}
