package analysis

import (
	"errors"
	"fmt"
)

const (
	DefaultLongSentence     = 15
	DefaultVeryLongSentence = 20
)

// ErrInvalidConfig is returned for unusable sentence thresholds.
var ErrInvalidConfig = errors.New("invalid analysis config")

// Config configures an Analyzer.
type Config struct {
	Lexicon Lexicon

	// A sentence with more than LongSentence words is long; with more than
	// VeryLongSentence words it is very long instead.
	LongSentence     int
	VeryLongSentence int
}

// DefaultConfig returns the built-in lexicon and thresholds.
func DefaultConfig() Config {
	return Config{
		Lexicon:          DefaultLexicon(),
		LongSentence:     DefaultLongSentence,
		VeryLongSentence: DefaultVeryLongSentence,
	}
}

// Validate checks the thresholds.
func (c Config) Validate() error {
	if c.LongSentence <= 0 || c.VeryLongSentence <= 0 {
		return fmt.Errorf("%w: thresholds must be positive (long=%d, very long=%d)",
			ErrInvalidConfig, c.LongSentence, c.VeryLongSentence)
	}
	if c.VeryLongSentence < c.LongSentence {
		return fmt.Errorf("%w: very long threshold %d is below long threshold %d",
			ErrInvalidConfig, c.VeryLongSentence, c.LongSentence)
	}
	return nil
}
