package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/qalam/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:         db,
		maxEntries: DefaultMaxEntries,
		entropy:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// SetMaxEntries changes how many entries each cache table keeps. Values
// below 1 restore the default. The new bound applies from the next put.
func (s *SQLiteStore) SetMaxEntries(n int) {
	if n < 1 {
		n = DefaultMaxEntries
	}
	s.maxEntries = n
}

// MaxEntries returns the per-table bound.
func (s *SQLiteStore) MaxEntries() int {
	return s.maxEntries
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS grammar_cache (
		id          TEXT PRIMARY KEY,
		key         TEXT NOT NULL UNIQUE,
		text        TEXT NOT NULL,
		suggestions TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		last_used   INTEGER NOT NULL,
		hits        INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_grammar_last_used ON grammar_cache(last_used DESC);

	CREATE TABLE IF NOT EXISTS translation_cache (
		id          TEXT PRIMARY KEY,
		key         TEXT NOT NULL UNIQUE,
		text        TEXT NOT NULL,
		target      TEXT NOT NULL,
		translation TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		last_used   INTEGER NOT NULL,
		hits        INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_translation_last_used ON translation_cache(last_used DESC);

	CREATE TABLE IF NOT EXISTS usage (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_usage_created ON usage(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

const grammarColumns = `id, key, text, suggestions, created_at, last_used, hits`

const translationColumns = `id, key, text, target, translation, created_at, last_used, hits`

func (s *SQLiteStore) PutGrammar(ctx context.Context, p PutGrammarParams) (*model.GrammarEntry, error) {
	if p.Key == "" {
		return nil, errors.New("grammar entry needs a key")
	}
	suggestions := p.Suggestions
	if suggestions == nil {
		suggestions = []model.GrammarSuggestion{}
	}
	b, err := json.Marshal(suggestions)
	if err != nil {
		return nil, fmt.Errorf("encode suggestions: %w", err)
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO grammar_cache (id, key, text, suggestions, created_at, last_used, hits)
		 VALUES (?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT(key) DO UPDATE SET
		   text = excluded.text, suggestions = excluded.suggestions, last_used = excluded.last_used`,
		s.newID(), p.Key, p.Text, string(b), now.Format(time.RFC3339), now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert grammar entry: %w", err)
	}
	if err := evict(ctx, tx, "grammar_cache", s.maxEntries); err != nil {
		return nil, err
	}

	e, err := scanGrammar(tx.QueryRowContext(ctx,
		`SELECT `+grammarColumns+` FROM grammar_cache WHERE key = ?`, p.Key))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) GetGrammar(ctx context.Context, key string) (*model.GrammarEntry, error) {
	e, err := scanGrammar(s.db.QueryRowContext(ctx,
		`SELECT `+grammarColumns+` FROM grammar_cache WHERE key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, "grammar_cache", e.ID); err != nil {
		return nil, err
	}
	e.Hits++
	e.LastUsed = time.Now().UTC()
	return &e, nil
}

func (s *SQLiteStore) PutTranslation(ctx context.Context, p PutTranslationParams) (*model.TranslationEntry, error) {
	if p.Key == "" {
		return nil, errors.New("translation entry needs a key")
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO translation_cache (id, key, text, target, translation, created_at, last_used, hits)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT(key) DO UPDATE SET
		   text = excluded.text, target = excluded.target,
		   translation = excluded.translation, last_used = excluded.last_used`,
		s.newID(), p.Key, p.Text, p.Target, p.Translation, now.Format(time.RFC3339), now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert translation entry: %w", err)
	}
	if err := evict(ctx, tx, "translation_cache", s.maxEntries); err != nil {
		return nil, err
	}

	e, err := scanTranslation(tx.QueryRowContext(ctx,
		`SELECT `+translationColumns+` FROM translation_cache WHERE key = ?`, p.Key))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) GetTranslation(ctx context.Context, key string) (*model.TranslationEntry, error) {
	e, err := scanTranslation(s.db.QueryRowContext(ctx,
		`SELECT `+translationColumns+` FROM translation_cache WHERE key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, "translation_cache", e.ID); err != nil {
		return nil, err
	}
	e.Hits++
	e.LastUsed = time.Now().UTC()
	return &e, nil
}

// Delete removes one entry by key.
func (s *SQLiteStore) Delete(ctx context.Context, table Table, key string) error {
	var total int64
	for _, t := range []Table{TableGrammar, TableTranslation} {
		if !table.includes(t) {
			continue
		}
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+tableName(t)+` WHERE key = ?`, key)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if total == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes entries and returns how many were removed.
func (s *SQLiteStore) Clear(ctx context.Context, p ClearParams) (int64, error) {
	cutoff := int64(math.MaxInt64)
	if p.OlderThan > 0 {
		cutoff = time.Now().Add(-p.OlderThan).UnixNano()
	}
	var total int64
	for _, t := range []Table{TableGrammar, TableTranslation} {
		if !p.Table.includes(t) {
			continue
		}
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+tableName(t)+` WHERE last_used < ?`, cutoff)
		if err != nil {
			return total, fmt.Errorf("clear %s: %w", t, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) touch(ctx context.Context, table, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET hits = hits + 1, last_used = ? WHERE id = ?`,
		time.Now().UnixNano(), id)
	return err
}

// evict keeps only the keep most recently used rows of table.
func evict(ctx context.Context, tx *sql.Tx, table string, keep int) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE id NOT IN (
			SELECT id FROM `+table+` ORDER BY last_used DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("evict %s: %w", table, err)
	}
	return nil
}

func tableName(t Table) string {
	if t == TableTranslation {
		return "translation_cache"
	}
	return "grammar_cache"
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGrammar(row scanner) (model.GrammarEntry, error) {
	var e model.GrammarEntry
	var suggestions, createdAt string
	var lastUsed int64

	err := row.Scan(&e.ID, &e.Key, &e.Text, &suggestions, &createdAt, &lastUsed, &e.Hits)
	if err != nil {
		return e, err
	}

	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.LastUsed = time.Unix(0, lastUsed).UTC()
	if err := json.Unmarshal([]byte(suggestions), &e.Suggestions); err != nil {
		return e, fmt.Errorf("decode suggestions for %s: %w", e.Key, err)
	}
	return e, nil
}

func scanTranslation(row scanner) (model.TranslationEntry, error) {
	var e model.TranslationEntry
	var createdAt string
	var lastUsed int64

	err := row.Scan(&e.ID, &e.Key, &e.Text, &e.Target, &e.Translation, &createdAt, &lastUsed, &e.Hits)
	if err != nil {
		return e, err
	}

	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.LastUsed = time.Unix(0, lastUsed).UTC()
	return e, nil
}
