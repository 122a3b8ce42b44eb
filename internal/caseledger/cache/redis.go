package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"koe/internal/caseledger/projection"
)

// KeyPrefix namespaces cached projections.
const KeyPrefix = "koe:projection:"

// putIfNewer writes the projection only when it advances the cached version.
var putIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'state', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// Redis stores projections as hashes of (version, state JSON).
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis builds a Redis-backed cache. A zero ttl keeps entries until
// evicted.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(caseID string) string {
	return KeyPrefix + caseID
}

// Get returns the cached projection of caseID.
func (r *Redis) Get(ctx context.Context, caseID string) (projection.State, bool, error) {
	raw, err := r.client.HGet(ctx, key(caseID), "state").Bytes()
	if errors.Is(err, redis.Nil) {
		return projection.State{}, false, nil
	}
	if err != nil {
		return projection.State{}, false, fmt.Errorf("get cached projection: %w", err)
	}
	var s projection.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return projection.State{}, false, fmt.Errorf("decode cached projection: %w", err)
	}
	return s, true, nil
}

// Put stores s unless a projection at the same or a later version is
// already cached.
func (r *Redis) Put(ctx context.Context, s projection.State) error {
	if !s.Exists() {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode projection: %w", err)
	}
	err = putIfNewer.Run(ctx, r.client, []string{key(s.CaseID)},
		strconv.FormatInt(s.Version, 10), raw, r.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache projection: %w", err)
	}
	return nil
}

// Invalidate drops the cached projection of caseID.
func (r *Redis) Invalidate(ctx context.Context, caseID string) error {
	if err := r.client.Del(ctx, key(caseID)).Err(); err != nil {
		return fmt.Errorf("invalidate projection: %w", err)
	}
	return nil
}
