// Package chunker splits long Arabic prose into pieces small enough for a
// single grammar request, preferring paragraph and sentence boundaries.
package chunker

import (
	"unicode"

	"github.com/rcliao/qalam/internal/analysis"
)

const (
	DefaultTargetSize = 1200
	DefaultMinSize    = 200
	DefaultMaxSize    = 2000
)

// Options configures chunking behavior. Sizes are in runes.
type Options struct {
	TargetSize int
	MinSize    int
	MaxSize    int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		MinSize:    DefaultMinSize,
		MaxSize:    DefaultMaxSize,
	}
}

// ChunkResult is a chunk with its rune offsets in the input text.
type ChunkResult struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Chunk splits text into chunks. Short text (<= MaxSize runes once
// trimmed) returns a single chunk. Chunks never straddle a sentence unless
// a single sentence exceeds MaxSize, in which case it is split on
// whitespace.
func Chunk(text string, opts Options) []ChunkResult {
	if opts.TargetSize == 0 {
		opts = DefaultOptions()
	}
	if opts.MaxSize < opts.TargetSize {
		opts.MaxSize = opts.TargetSize
	}

	runes := []rune(text)
	whole, ok := trim(runes, span{0, len(runes)})
	if !ok {
		return nil
	}

	// Short content, no chunking needed
	if whole.len() <= opts.MaxSize {
		return []ChunkResult{whole.result(runes)}
	}

	var pieces []span
	for _, p := range paragraphs(runes, whole) {
		if p.len() <= opts.TargetSize {
			pieces = append(pieces, p)
			continue
		}
		for _, s := range sentences(runes, p) {
			if s.len() > opts.MaxSize {
				pieces = append(pieces, hardSplit(runes, s, opts)...)
			} else {
				pieces = append(pieces, s)
			}
		}
	}

	return merge(runes, pieces, opts)
}

// span is a half-open rune range.
type span struct {
	start, end int
}

func (s span) len() int { return s.end - s.start }

func (s span) result(runes []rune) ChunkResult {
	return ChunkResult{Text: string(runes[s.start:s.end]), Start: s.start, End: s.end}
}

// trim narrows s to exclude surrounding whitespace.
func trim(runes []rune, s span) (span, bool) {
	for s.start < s.end && unicode.IsSpace(runes[s.start]) {
		s.start++
	}
	for s.end > s.start && unicode.IsSpace(runes[s.end-1]) {
		s.end--
	}
	return s, s.start < s.end
}

// paragraphs splits within s on blank lines.
func paragraphs(runes []rune, s span) []span {
	var out []span
	add := func(p span) {
		if p, ok := trim(runes, p); ok {
			out = append(out, p)
		}
	}

	start := s.start
	for i := s.start; i < s.end; i++ {
		if runes[i] != '\n' {
			continue
		}
		j := i + 1
		for j < s.end && runes[j] != '\n' && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < s.end && runes[j] == '\n' {
			add(span{start, i})
			start = j + 1
			i = j
		}
	}
	add(span{start, s.end})
	return out
}

// sentences splits within s at sentence terminators.
func sentences(runes []rune, s span) []span {
	var out []span
	for sent := range analysis.Sentences(string(runes[s.start:s.end])) {
		if sent.End > sent.Start {
			out = append(out, span{s.start + sent.Start, s.start + sent.End})
		}
	}
	return out
}

// hardSplit breaks s into pieces of at most TargetSize runes, cutting at
// the last whitespace before the limit when there is one.
func hardSplit(runes []rune, s span, opts Options) []span {
	var out []span
	for s.len() > 0 {
		if s.len() <= opts.TargetSize {
			if p, ok := trim(runes, s); ok {
				out = append(out, p)
			}
			break
		}
		cut := s.start + opts.TargetSize
		for i := cut; i > s.start; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		if p, ok := trim(runes, span{s.start, cut}); ok {
			out = append(out, p)
		}
		s.start = cut
	}
	return out
}

// merge packs consecutive pieces into chunks up to TargetSize. A final
// chunk under MinSize is folded into its predecessor when that stays
// within MaxSize.
func merge(runes []rune, pieces []span, opts Options) []ChunkResult {
	var chunks []span
	for _, p := range pieces {
		if n := len(chunks); n > 0 && p.end-chunks[n-1].start <= opts.TargetSize {
			chunks[n-1].end = p.end
			continue
		}
		chunks = append(chunks, p)
	}

	if n := len(chunks); n > 1 && chunks[n-1].len() < opts.MinSize &&
		chunks[n-1].end-chunks[n-2].start <= opts.MaxSize {
		chunks[n-2].end = chunks[n-1].end
		chunks = chunks[:n-1]
	}

	results := make([]ChunkResult, len(chunks))
	for i, c := range chunks {
		results[i] = c.result(runes)
	}
	return results
}
