// Package store persists grammar and translation results and the request
// log used for quota accounting.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/qalam/internal/model"
)

// ErrNotFound is returned when no cached entry matches.
var ErrNotFound = errors.New("cache entry not found")

// DefaultMaxEntries is how many entries each cache table keeps.
const DefaultMaxEntries = 100

// Table names a cache table.
type Table string

const (
	TableGrammar     Table = "grammar"
	TableTranslation Table = "translation"
)

// ParseTable accepts "grammar", "translation" or "" (both).
func ParseTable(s string) (Table, error) {
	switch t := Table(s); t {
	case "", TableGrammar, TableTranslation:
		return t, nil
	}
	return "", fmt.Errorf("unknown cache table %q (use grammar or translation)", s)
}

func (t Table) includes(o Table) bool {
	return t == "" || t == o
}

// PutGrammarParams holds parameters for caching a grammar result.
type PutGrammarParams struct {
	Key         string
	Text        string
	Suggestions []model.GrammarSuggestion
}

// PutTranslationParams holds parameters for caching a translation.
type PutTranslationParams struct {
	Key         string
	Text        string
	Target      string
	Translation string
}

// ListParams holds parameters for listing cache entries.
type ListParams struct {
	Table Table
	Limit int
}

// SearchParams holds parameters for a substring search.
type SearchParams struct {
	Table Table
	Query string
	Limit int
}

// ClearParams selects entries to delete. A zero OlderThan clears
// everything in the table.
type ClearParams struct {
	Table     Table
	OlderThan time.Duration
}

// Entries groups cache rows by table.
type Entries struct {
	Grammar      []model.GrammarEntry     `json:"grammar,omitempty"`
	Translations []model.TranslationEntry `json:"translations,omitempty"`
}

// Len returns the total number of entries.
func (e Entries) Len() int {
	return len(e.Grammar) + len(e.Translations)
}

// Store defines the cache storage interface.
type Store interface {
	// PutGrammar stores or refreshes a grammar result.
	PutGrammar(ctx context.Context, p PutGrammarParams) (*model.GrammarEntry, error)

	// GetGrammar returns the grammar result for key and marks it used.
	GetGrammar(ctx context.Context, key string) (*model.GrammarEntry, error)

	// FindSimilar returns the best cached grammar result for a
	// near-duplicate text.
	FindSimilar(ctx context.Context, p SimilarParams) (*SimilarMatch, error)

	// PutTranslation stores or refreshes a translation.
	PutTranslation(ctx context.Context, p PutTranslationParams) (*model.TranslationEntry, error)

	// GetTranslation returns the translation for key and marks it used.
	GetTranslation(ctx context.Context, key string) (*model.TranslationEntry, error)

	// RecordUsage logs one provider request.
	RecordUsage(ctx context.Context, kind string) error

	// UsageSince counts provider requests of kind made at or after
	// since. An empty kind counts every kind.
	UsageSince(ctx context.Context, kind string, since time.Time) (int, error)

	// Close closes the store.
	Close() error
}
