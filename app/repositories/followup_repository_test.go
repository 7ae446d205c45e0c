package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarot-agent/app/models/reading"
	"tarot-agent/pkg/redis"
)

func newFollowupRepo(t *testing.T) (*FollowupRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(redis.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewFollowupRepository(client, "tarot", time.Hour), mr
}

func TestFollowupAppendAndList(t *testing.T) {
	repo, mr := newFollowupRepo(t)
	ctx := context.Background()

	empty, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	askedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, 1, reading.FollowupExchange{Question: "First?", Answer: "One", AskedAt: askedAt}))
	require.NoError(t, repo.Append(ctx, 1, reading.FollowupExchange{Question: "Second?", Answer: "Two", AskedAt: askedAt.Add(time.Minute)}))
	require.NoError(t, repo.Append(ctx, 2, reading.FollowupExchange{Question: "Other?", Answer: "Three", AskedAt: askedAt}))

	exchanges, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	assert.Equal(t, "First?", exchanges[0].Question)
	assert.Equal(t, "Two", exchanges[1].Answer)
	assert.True(t, askedAt.Equal(exchanges[0].AskedAt))

	assert.Equal(t, time.Hour, mr.TTL("tarot:followups:1"))
}

func TestFollowupListSkipsCorrupt(t *testing.T) {
	repo, mr := newFollowupRepo(t)
	ctx := context.Background()

	_, err := mr.RPush("tarot:followups:5", "not json")
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, 5, reading.FollowupExchange{Question: "Q?", Answer: "A"}))

	exchanges, err := repo.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "Q?", exchanges[0].Question)
}

func TestFollowupDefaultTTL(t *testing.T) {
	repo := NewFollowupRepository(nil, "tarot", 0)
	assert.Equal(t, DefaultFollowupTTL, repo.ttl)
}
