package assist

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/qalam/internal/model"
)

// QuotaStatus reports grammar provider usage in the current window.
type QuotaStatus struct {
	Limit     int           `json:"limit"` // negative means unlimited
	Used      int           `json:"used"`
	Remaining int           `json:"remaining"`
	Window    time.Duration `json:"window"`
	Since     time.Time     `json:"since"`
	Enforced  bool          `json:"enforced"`
}

// Quota returns usage for the current window. Without a store nothing is
// counted and the quota is not enforced.
func (s *Service) Quota(ctx context.Context) (QuotaStatus, error) {
	q := QuotaStatus{
		Limit:  s.opts.RequestLimit,
		Window: s.opts.QuotaWindow,
		Since:  time.Now().Add(-s.opts.QuotaWindow).UTC(),
	}
	if s.opts.Store == nil {
		q.Remaining = q.Limit
		return q, nil
	}

	used, err := s.opts.Store.UsageSince(ctx, model.UsageGrammar, q.Since)
	if err != nil {
		return q, fmt.Errorf("count usage: %w", err)
	}
	q.Used = used
	q.Enforced = q.Limit >= 0
	if q.Enforced {
		q.Remaining = max(q.Limit-used, 0)
	} else {
		q.Remaining = -1
	}
	return q, nil
}

// reserve fails with ErrQuotaExceeded when n more requests would exceed
// the limit.
func (s *Service) reserve(ctx context.Context, n int) error {
	q, err := s.Quota(ctx)
	if err != nil {
		return err
	}
	if q.Enforced && q.Used+n > q.Limit {
		return fmt.Errorf("%w: %d of %d requests used since %s",
			ErrQuotaExceeded, q.Used, q.Limit, q.Since.Format(time.RFC3339))
	}
	return nil
}
