// Package sweep decides which records have outlived their TTL and removes
// them. Sweeping is lazy: it runs whenever a batch of records is observed
// (a list call, a live feed delivery, a reaper tick), never on its own timer.
package sweep

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

// Deleter removes a record by id from its backing collection. Deletes must
// be idempotent; sweeping an already-gone record is not an error.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Item is the expiry-relevant projection of a stored record.
type Item struct {
	ID         string
	CreatedAt  int64 // epoch milliseconds
	TTLSeconds int64 // 0 means the record never expires
}

// IsExpired reports whether a record with the given creation instant and TTL
// is expired at now. The boundary instant counts as expired.
func IsExpired(createdAt, ttlSeconds int64, now time.Time) bool {
	if ttlSeconds <= 0 {
		return false
	}
	return now.UnixMilli()-createdAt >= ttlSeconds*1000
}

type Service struct {
	log *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	return &Service{
		log: log.With("component", "sweeper"),
	}
}

// Sweep partitions items into expired and live, issues a best-effort delete
// for every expired one, and returns the set of live ids. A failed delete is
// logged and never blocks the remaining deletions: the record stays behind
// and gets picked up by the next observation.
func (s *Service) Sweep(ctx context.Context, d Deleter, items []Item, now time.Time) map[string]struct{} {
	live := make(map[string]struct{}, len(items))
	for _, it := range items {
		if !IsExpired(it.CreatedAt, it.TTLSeconds, now) {
			live[it.ID] = struct{}{}
			continue
		}
		if err := d.Delete(ctx, it.ID); err != nil {
			s.log.Error("failed to sweep expired record", "id", it.ID, "error", err)
		}
	}
	return live
}
