package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ExportAll returns every entry of the selected tables, oldest use first.
func (s *SQLiteStore) ExportAll(ctx context.Context, table Table) (Entries, error) {
	var out Entries
	if table.includes(TableGrammar) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+grammarColumns+` FROM grammar_cache ORDER BY last_used, id`)
		if err != nil {
			return out, err
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanGrammar(rows)
			if err != nil {
				return out, err
			}
			out.Grammar = append(out.Grammar, e)
		}
		if err := rows.Err(); err != nil {
			return out, err
		}
	}
	if table.includes(TableTranslation) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+translationColumns+` FROM translation_cache ORDER BY last_used, id`)
		if err != nil {
			return out, err
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanTranslation(rows)
			if err != nil {
				return out, err
			}
			out.Translations = append(out.Translations, e)
		}
		if err := rows.Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Import stores entries from an export, keeping their timestamps and hit
// counts. Entries whose key is already cached are skipped. The table
// bound is applied afterwards, so only the most recently used survive.
func (s *SQLiteStore) Import(ctx context.Context, entries Entries) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, e := range entries.Grammar {
		if e.Key == "" {
			continue
		}
		b, err := json.Marshal(e.Suggestions)
		if err != nil {
			return 0, fmt.Errorf("encode suggestions for %s: %w", e.Key, err)
		}
		if e.Suggestions == nil {
			b = []byte("[]")
		}
		created, lastUsed := importTimes(e.CreatedAt, e.LastUsed)
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO grammar_cache (id, key, text, suggestions, created_at, last_used, hits)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), e.Key, e.Text, string(b), created, lastUsed, e.Hits)
		if err != nil {
			return 0, fmt.Errorf("import grammar entry %s: %w", e.Key, err)
		}
		n, _ := res.RowsAffected()
		imported += int(n)
	}

	for _, e := range entries.Translations {
		if e.Key == "" {
			continue
		}
		created, lastUsed := importTimes(e.CreatedAt, e.LastUsed)
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO translation_cache (id, key, text, target, translation, created_at, last_used, hits)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), e.Key, e.Text, e.Target, e.Translation, created, lastUsed, e.Hits)
		if err != nil {
			return 0, fmt.Errorf("import translation entry %s: %w", e.Key, err)
		}
		n, _ := res.RowsAffected()
		imported += int(n)
	}

	if err := evict(ctx, tx, "grammar_cache", s.maxEntries); err != nil {
		return 0, err
	}
	if err := evict(ctx, tx, "translation_cache", s.maxEntries); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}

func importTimes(created, lastUsed time.Time) (string, int64) {
	now := time.Now().UTC()
	if created.IsZero() {
		created = now
	}
	if lastUsed.IsZero() {
		lastUsed = created
	}
	return created.UTC().Format(time.RFC3339), lastUsed.UnixNano()
}
