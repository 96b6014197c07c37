package model

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidSuggestion is returned when a suggestion does not quote
// exactly one phrase.
var ErrInvalidSuggestion = errors.New("suggestion must set exactly one of error or nonStandardPhrase")

// GrammarSuggestion is one item returned by the grammar provider. Exactly
// one of ErrorText and NonStandardPhraseText is set.
type GrammarSuggestion struct {
	ErrorText             string `json:"error,omitempty"`
	NonStandardPhraseText string `json:"nonStandardPhrase,omitempty"`
	Explanation           string `json:"explanation"`
	SuggestionText        string `json:"suggestion"`
}

// Validate checks the exactly-one-phrase invariant.
func (s GrammarSuggestion) Validate() error {
	hasErr := strings.TrimSpace(s.ErrorText) != ""
	hasNS := strings.TrimSpace(s.NonStandardPhraseText) != ""
	if hasErr == hasNS {
		return ErrInvalidSuggestion
	}
	return nil
}

// Phrase returns the quoted phrase and the span kind it maps to.
func (s GrammarSuggestion) Phrase() (string, Kind) {
	if strings.TrimSpace(s.ErrorText) != "" {
		return s.ErrorText, GrammarError
	}
	return s.NonStandardPhraseText, NonStandardPhrase
}

// GrammarEntry is a cached grammar result.
type GrammarEntry struct {
	ID          string              `json:"id"`
	Key         string              `json:"key"`
	Text        string              `json:"text"`
	Suggestions []GrammarSuggestion `json:"suggestions"`
	CreatedAt   time.Time           `json:"created_at"`
	LastUsed    time.Time           `json:"last_used"`
	Hits        int                 `json:"hits"`
}

// TranslationEntry is a cached translation.
type TranslationEntry struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Text        string    `json:"text"`
	Target      string    `json:"target"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
	LastUsed    time.Time `json:"last_used"`
	Hits        int       `json:"hits"`
}

// Usage kinds recorded against the request quota.
const (
	UsageGrammar   = "grammar"
	UsageTranslate = "translate"
)

// ValidUsageKinds are the allowed usage kinds.
var ValidUsageKinds = map[string]bool{
	UsageGrammar:   true,
	UsageTranslate: true,
}
