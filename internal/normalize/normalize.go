// Package normalize canonicalizes Arabic text for comparison.
//
// Normalize strips diacritics and tatweel, folds letter variants (alif,
// yaa, taa marbuta, hamza) and reduces everything outside the Arabic
// blocks to single spaces. The result is only meant for comparison and
// hashing; it is never shown to the writer.
//
// All functions are pure and safe for concurrent use.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pipeline composes the text, drops marks, re-composes so the remaining
// marks stay in canonical order, then folds letters. A chain buffers
// internally, so every call builds its own.
func pipeline() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Remove(runes.Predicate(isStripped)),
		norm.NFC,
		runes.Map(fold),
	)
}

// Normalize returns the comparison form of text. It never fails and is
// idempotent.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}
	out, _, err := transform.String(pipeline(), s)
	if err != nil {
		// Only reachable on malformed transformer state; fall back to the
		// untransformed input so the function stays total.
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// isStripped reports harakat, Quranic-style combining hamza/madda marks,
// superscript alef and tatweel.
func isStripped(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670 || r == 0x0640
}

func fold(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ', 'ا':
		return 'ا'
	case 'ى', 'ي':
		return 'ي'
	case 'ة':
		return 'ه'
	case 'ؤ', 'ئ', 'ء':
		return 'ء'
	}
	if unicode.IsSpace(r) || IsArabic(r) {
		return r
	}
	return ' '
}

// IsArabic reports whether r lies in one of the Arabic Unicode blocks
// (Arabic, Supplement, Extended-A, Presentation Forms-A and -B).
func IsArabic(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF,
		r >= 0x0750 && r <= 0x077F,
		r >= 0x08A0 && r <= 0x08FF,
		r >= 0xFB50 && r <= 0xFDFF,
		r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}
