package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/qalam/internal/model"
)

func (s *SQLiteStore) RecordUsage(ctx context.Context, kind string) error {
	if !model.ValidUsageKinds[kind] {
		return fmt.Errorf("invalid usage kind %q", kind)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage (id, kind, created_at) VALUES (?, ?, ?)`,
		s.newID(), kind, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UsageSince(ctx context.Context, kind string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usage WHERE created_at >= ? AND (? = '' OR kind = ?)`,
		since.UnixNano(), kind, kind).Scan(&n)
	return n, err
}

// PruneUsage deletes usage rows older than before.
func (s *SQLiteStore) PruneUsage(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM usage WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
