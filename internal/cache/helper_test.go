package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	t.Cleanup(Close)
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "alice", Count: 3}, time.Minute))

	var got payload
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "alice", Count: 3}, got)

	found, err = GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHelpers_NoopWithoutClient(t *testing.T) {
	client = nil
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "k", "v", time.Minute))

	var got string
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Aside falls straight through to the fetch callback
	var dest int
	calls := 0
	require.NoError(t, Aside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		dest = 42
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 42, dest)
}

func TestAside_CachesFetchResult(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *int) func() error {
		return func() error {
			calls++
			*dest = 7
			return nil
		}
	}

	var first int
	require.NoError(t, Aside(ctx, "answer", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 7, first)
	assert.Equal(t, 1, calls)

	// second read is served from Redis without calling fetch again
	var second int
	require.NoError(t, Aside(ctx, "answer", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 7, second)
	assert.Equal(t, 1, calls)
}

func TestAside_ExpiredEntryRefetches(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	calls := 0
	load := func(dest *string) func() error {
		return func() error {
			calls++
			*dest = "fresh"
			return nil
		}
	}

	var v string
	require.NoError(t, Aside(ctx, "k", &v, time.Second, load(&v)))
	require.Equal(t, 1, calls)

	mr.FastForward(2 * time.Second)

	require.NoError(t, Aside(ctx, "k", &v, time.Second, load(&v)))
	assert.Equal(t, 2, calls)
}
