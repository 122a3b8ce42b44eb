//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"koe/internal/platform/ratelimit"
	"koe/pkg/testutil/containers"
)

type RedisLimitSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ratelimit.Redis
}

func TestRedisLimitSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimitSuite))
}

func (s *RedisLimitSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = ratelimit.NewRedis(s.redis.Client.Client)
}

func (s *RedisLimitSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushPrefix(context.Background(), ratelimit.KeyPrefix))
}

func (s *RedisLimitSuite) TestWindowIsShared() {
	ctx := context.Background()
	other := ratelimit.NewRedis(s.redis.Client.Client)

	res, err := s.store.Allow(ctx, "actor:te-1", 2, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(1, res.Remaining)

	res, err = other.Allow(ctx, "actor:te-1", 2, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed, "second instance sees the same window")
	s.Zero(res.Remaining)

	res, err = s.store.Allow(ctx, "actor:te-1", 2, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)

	ttl, err := s.redis.Client.PTTL(ctx, ratelimit.KeyPrefix+"actor:te-1").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisLimitSuite) TestWindowSlides() {
	ctx := context.Background()
	res, err := s.store.Allow(ctx, "actor:te-2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(ctx, "actor:te-2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(res.Allowed)

	s.Eventually(func() bool {
		res, err := s.store.Allow(ctx, "actor:te-2", 1, 200*time.Millisecond)
		return err == nil && res.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}
