package analysis

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rcliao/qalam/internal/model"
)

//go:embed lexicon.json
var defaultLexiconJSON []byte

// Lexicon holds the phrase lists scanned by the analyzer.
type Lexicon struct {
	WeakPhrases       []string `json:"weak_phrases"`
	Adverbs           []string `json:"adverbs"`
	PassiveIndicators []string `json:"passive_indicators"`
}

// DefaultLexicon returns a fresh copy of the built-in Arabic lists.
func DefaultLexicon() Lexicon {
	lex, err := ParseLexicon(defaultLexiconJSON)
	if err != nil {
		panic(fmt.Sprintf("analysis: embedded lexicon: %v", err))
	}
	return lex
}

// ParseLexicon decodes a lexicon from JSON. Blank entries are dropped.
func ParseLexicon(data []byte) (Lexicon, error) {
	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	lex.WeakPhrases = clean(lex.WeakPhrases)
	lex.Adverbs = clean(lex.Adverbs)
	lex.PassiveIndicators = clean(lex.PassiveIndicators)
	return lex, nil
}

// LoadLexicon reads a replacement lexicon file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// Save writes the lexicon as indented JSON.
func (l Lexicon) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lexicon: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write lexicon: %w", err)
	}
	return nil
}

// Phrases returns the list scanned for a lexical kind.
func (l Lexicon) Phrases(k model.Kind) []string {
	switch k {
	case model.WeakPhrase:
		return l.WeakPhrases
	case model.Adverb:
		return l.Adverbs
	case model.Passive:
		return l.PassiveIndicators
	}
	return nil
}

func clean(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
