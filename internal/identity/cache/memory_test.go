package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"jobeval/pkg/platform/sentinel"
)

type InMemoryCacheSuite struct {
	suite.Suite
	now   time.Time
	cache *InMemoryCache
}

func TestInMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(InMemoryCacheSuite))
}

func (s *InMemoryCacheSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	s.cache = NewInMemoryCache(time.Minute, WithClock(func() time.Time { return s.now }))
}

func (s *InMemoryCacheSuite) TestMiss() {
	_, err := s.cache.Find(context.Background(), "AZE1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryCacheSuite) TestStoresBothAnswers() {
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

func (s *InMemoryCacheSuite) TestTrimsIdentityNumber() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, " AZE1 ", true))
	valid, err := s.cache.Find(ctx, "AZE1")
	s.Require().NoError(err)
	s.True(valid)
}

func (s *InMemoryCacheSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "AZE1", true))

	s.now = s.now.Add(59 * time.Second)
	_, err := s.cache.Find(ctx, "AZE1")
	s.NoError(err)

	s.now = s.now.Add(time.Second)
	_, err = s.cache.Find(ctx, "AZE1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryCacheSuite) TestPurge() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "old", true))
	s.now = s.now.Add(30 * time.Second)
	s.Require().NoError(s.cache.Save(ctx, "fresh", true))
	s.now = s.now.Add(40 * time.Second)

	s.Equal(1, s.cache.Purge())
	_, err := s.cache.Find(ctx, "fresh")
	s.NoError(err)
}

func (s *InMemoryCacheSuite) TestExpiredEntryIsDeletedOnRead() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "AZE1", true))
	s.Require().NoError(s.cache.Save(ctx, "AZE2", true))
	s.Equal(2, s.cache.Len())

	s.now = s.now.Add(time.Minute)
	_, err := s.cache.Find(ctx, "AZE1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(1, s.cache.Len())
}

func (s *InMemoryCacheSuite) TestSaveAfterExpiryRefreshesEntry() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Save(ctx, "AZE1", false))
	s.now = s.now.Add(2 * time.Minute)
	s.Require().NoError(s.cache.Save(ctx, "AZE1", true))

	valid, err := s.cache.Find(ctx, "AZE1")
	s.Require().NoError(err)
	s.True(valid)
	s.Equal(1, s.cache.Len())
}

func TestRunJanitorEvictsUnreadEntries(t *testing.T) {
	c := NewInMemoryCache(10 * time.Millisecond)
	for _, n := range []string{"AZE1", "AZE2", "AZE3"} {
		require.NoError(t, c.Save(context.Background(), n, true))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.RunJanitor(ctx, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
