package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks for batch-submitted readings.
// Key format: dedup:<instrument_id>:<type_id>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact reading has already been ingested.
func (d *DedupChecker) IsDuplicate(ctx context.Context, instrumentID string, typeID int64, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(instrumentID, typeID, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this reading has been ingested (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, instrumentID string, typeID int64, ts time.Time) error {
	return d.client.Set(ctx, d.key(instrumentID, typeID, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(instrumentID string, typeID int64, ts time.Time) string {
	return fmt.Sprintf("dedup:%s:%d:%d", instrumentID, typeID, ts.Unix())
}
