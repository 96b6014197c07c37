package store

import (
	"context"
	"strings"
)

const defaultListLimit = 20

// List returns the most recently used entries of each selected table.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) (Entries, error) {
	return s.query(ctx, p.Table, "", nil, p.Limit)
}

// Search finds entries whose text (or translation) contains the query.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) (Entries, error) {
	q := "%" + escapeLike(p.Query) + "%"
	return s.query(ctx, p.Table, "text LIKE ? ESCAPE '\\'", []interface{}{q}, p.Limit)
}

// query runs the same filter against each selected table, newest use first.
// Translation rows also match on their translated text.
func (s *SQLiteStore) query(ctx context.Context, table Table, where string, args []interface{}, limit int) (Entries, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out Entries

	if table.includes(TableGrammar) {
		sql := `SELECT ` + grammarColumns + ` FROM grammar_cache`
		if where != "" {
			sql += ` WHERE ` + where
		}
		sql += ` ORDER BY last_used DESC, id DESC LIMIT ?`

		rows, err := s.db.QueryContext(ctx, sql, append(args, limit)...)
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
		sql := `SELECT ` + translationColumns + ` FROM translation_cache`
		targs := args
		if where != "" {
			sql += ` WHERE (` + where + ` OR ` + strings.Replace(where, "text", "translation", 1) + `)`
			targs = append(append([]interface{}{}, args...), args...)
		}
		sql += ` ORDER BY last_used DESC, id DESC LIMIT ?`

		rows, err := s.db.QueryContext(ctx, sql, append(targs, limit)...)
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

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
