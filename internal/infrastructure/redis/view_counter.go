package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

// ViewCounter keeps one sorted set per path. Members are client IPs and the
// score is the unix time of the latest hit from that IP.
type ViewCounter struct {
	client *redis.Client
}

func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

func (c *ViewCounter) RecordHit(ctx context.Context, hit view.Hit) error {
	err := c.client.ZAddGT(ctx, c.hitsKey(hit.Path), redis.Z{
		Score:  float64(hit.Timestamp.Unix()),
		Member: hit.IP,
	}).Err()
	if err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	return nil
}

// UniqueHits counts IPs whose latest hit falls within [from, to].
func (c *ViewCounter) UniqueHits(ctx context.Context, path string, from, to time.Time) (int64, error) {
	n, err := c.client.ZCount(ctx, c.hitsKey(path),
		strconv.FormatInt(from.Unix(), 10),
		strconv.FormatInt(to.Unix(), 10),
	).Result()
	if err != nil {
		return 0, fmt.Errorf("count hits: %w", err)
	}
	return n, nil
}

func (c *ViewCounter) hitsKey(path string) string {
	return fmt.Sprintf("views:hits:%s", path)
}

var _ view.Counter = (*ViewCounter)(nil)
