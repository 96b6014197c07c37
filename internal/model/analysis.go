package model

// Analysis is the aggregate result of a rule-based pass over a text.
type Analysis struct {
	WordCount             int      `json:"word_count"`
	SentenceCount         int      `json:"sentence_count"`
	CharCount             int      `json:"char_count"` // runes
	LongSentenceCount     int      `json:"long_sentence_count"`
	VeryLongSentenceCount int      `json:"very_long_sentence_count"`
	AdverbCount           int      `json:"adverb_count"`
	Adverbs               []string `json:"adverbs"`
	PassiveCount          int      `json:"passive_count"`
	Passives              []string `json:"passives"`
	WeakPhraseCount       int      `json:"weak_phrase_count"`
	WeakPhrases           []string `json:"weak_phrases"`
	GrammarCount          int      `json:"grammar_count"` // filled in by the grammar provider, never locally
}

// Matched returns the recorded matches for a lexical kind.
func (a Analysis) Matched(k Kind) []string {
	switch k {
	case WeakPhrase:
		return a.WeakPhrases
	case Adverb:
		return a.Adverbs
	case Passive:
		return a.Passives
	}
	return nil
}

// Sentence is one segment of text closed by terminal punctuation, or the
// trailing fragment. Offsets are rune offsets of the trimmed sentence.
type Sentence struct {
	Text      string `json:"text"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	WordCount int    `json:"word_count"`
}
