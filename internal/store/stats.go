package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath             string       `json:"db_path"`
	DBSizeBytes        int64        `json:"db_size_bytes"`
	MaxEntries         int          `json:"max_entries"`
	GrammarEntries     int          `json:"grammar_entries"`
	GrammarHits        int          `json:"grammar_hits"`
	TranslationEntries int          `json:"translation_entries"`
	TranslationHits    int          `json:"translation_hits"`
	Usage              []UsageStats `json:"usage"`
}

// UsageStats holds per-kind request counts.
type UsageStats struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, MaxEntries: s.maxEntries, Usage: []UsageStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM grammar_cache`).Scan(&st.GrammarEntries, &st.GrammarHits)
	if err != nil {
		return st, err
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM translation_cache`).Scan(&st.TranslationEntries, &st.TranslationHits)
	if err != nil {
		return st, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) AS cnt
		FROM usage GROUP BY kind ORDER BY cnt DESC, kind`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var u UsageStats
		if err := rows.Scan(&u.Kind, &u.Count); err != nil {
			return st, err
		}
		st.Usage = append(st.Usage, u)
	}

	return st, rows.Err()
}
