//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"jobeval/internal/identity/cache"
	"jobeval/pkg/platform/sentinel"
	"jobeval/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "AZE1", true))
	s.Require().NoError(s.cache.Save(ctx, "AZE2", false))

	valid, err := s.cache.Find(ctx, "AZE1")
	s.Require().NoError(err)
	s.True(valid)

	valid, err = s.cache.Find(ctx, "AZE2")
	s.Require().NoError(err)
	s.False(valid)
}

func (s *RedisCacheSuite) TestMiss() {
	_, err := s.cache.Find(context.Background(), "unknown")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestTTLIsApplied() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "AZE1", true))

	ttl, err := s.redis.TTL(ctx, cache.Key("AZE1"))
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Second)
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisCacheSuite) TestKeyDoesNotStoreRawNumber() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "AZE1234567", true))

	keys, err := s.redis.Client.Keys(ctx, "*AZE1234567*").Result()
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *RedisCacheSuite) TestUnknownPayloadIsMiss() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, cache.Key("AZE1"), "garbage", time.Minute).Err())
	_, err := s.cache.Find(ctx, "AZE1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
