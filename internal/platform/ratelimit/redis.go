package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces rate limit windows.
const KeyPrefix = "koe:ratelimit:"

// Redis keeps each window as a sorted set of hit timestamps. The check and
// the add are two round trips, so concurrent writers may overshoot the
// limit by the number of racing requests.
type Redis struct {
	client redis.UniversalClient
	clock  func() time.Time
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, clock: time.Now}
}

func (s *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := s.clock()
	k := KeyPrefix + key

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(now.Add(-window).UnixMicro(), 10))
	card := pipe.ZCard(ctx, k)
	oldest := pipe.ZRangeWithScores(ctx, k, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("read rate limit window: %w", err)
	}

	count := int(card.Val())
	res := Result{Limit: limit, ResetAt: now.Add(window)}
	if zs := oldest.Val(); len(zs) > 0 {
		res.ResetAt = time.UnixMicro(int64(zs[0].Score)).Add(window)
	}
	if count >= limit {
		return res, nil
	}

	pipe = s.client.TxPipeline()
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
	pipe.PExpire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("record rate limit hit: %w", err)
	}
	res.Allowed = true
	res.Remaining = limit - count - 1
	if count == 0 {
		res.ResetAt = now.Add(window)
	}
	return res, nil
}
