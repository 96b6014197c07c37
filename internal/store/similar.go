package store

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rcliao/qalam/internal/model"
	"github.com/rcliao/qalam/internal/similarity"
)

// DefaultSimilarityThreshold is the score at which a cached grammar
// result is reused for a new text.
const DefaultSimilarityThreshold = 0.9

// SimilarParams holds parameters for a near-duplicate lookup.
type SimilarParams struct {
	Text      string
	Threshold float64 // 0 means DefaultSimilarityThreshold
	Limit     int     // max results; 0 means all
}

// SimilarMatch is a cached grammar entry scored against a query text.
type SimilarMatch struct {
	Entry model.GrammarEntry `json:"entry"`
	Score float64            `json:"score"`
}

// Similar scores every cached grammar entry against p.Text and returns
// those at or above the threshold, best first. Ties on similarity go to
// the entry with more hits, then the more recently used one.
func (s *SQLiteStore) Similar(ctx context.Context, p SimilarParams) ([]SimilarMatch, error) {
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	entries, err := s.List(ctx, ListParams{Table: TableGrammar, Limit: s.maxEntries})
	if err != nil {
		return nil, err
	}

	var matches []SimilarMatch
	for _, e := range entries.Grammar {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !similarity.IsSimilar(p.Text, e.Text, threshold) {
			continue
		}
		score := similarity.Similarity(p.Text, e.Text)
		matches = append(matches, SimilarMatch{Entry: e, Score: math.Round(score*1000) / 1000})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Entry.Hits != b.Entry.Hits {
			return a.Entry.Hits > b.Entry.Hits
		}
		return a.Entry.LastUsed.After(b.Entry.LastUsed)
	})

	if p.Limit > 0 && len(matches) > p.Limit {
		matches = matches[:p.Limit]
	}
	return matches, nil
}

// FindSimilar returns the best near-duplicate and marks it used, or
// ErrNotFound.
func (s *SQLiteStore) FindSimilar(ctx context.Context, p SimilarParams) (*SimilarMatch, error) {
	p.Limit = 1
	matches, err := s.Similar(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	best := matches[0]
	if err := s.touch(ctx, "grammar_cache", best.Entry.ID); err != nil {
		return nil, err
	}
	best.Entry.Hits++
	best.Entry.LastUsed = time.Now().UTC()
	return &best, nil
}
