package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"venyuk/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotGrid struct {
	VenueID string   `json:"venue_id"`
	Booked  []string `json:"booked"`
}

func TestGetOrSet_CachesFetchedValue(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	svc := NewService(client)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return slotGrid{VenueID: "v1", Booked: []string{"18:00-20:00"}}, nil
	}

	var first, second slotGrid
	require.NoError(t, svc.GetOrSet(ctx, "venyuk:slots:v1:2025-10-11", time.Minute, fetch, &first))
	require.NoError(t, svc.GetOrSet(ctx, "venyuk:slots:v1:2025-10-11", time.Minute, fetch, &second))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, mr.TTL("venyuk:slots:v1:2025-10-11"))
}

func TestGetOrSet_FetchErrorIsNotCached(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	svc := NewService(client)
	boom := errors.New("db down")

	var dest slotGrid
	err := svc.GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) { return nil, boom }, &dest)
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestDeletePattern(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	svc := NewService(client)
	ctx := context.Background()

	for _, key := range []string{"venyuk:slots:a:1", "venyuk:slots:a:2", "venyuk:slots:b:1"} {
		require.NoError(t, svc.Set(ctx, key, 1, time.Minute))
	}

	require.NoError(t, svc.DeletePattern(ctx, "venyuk:slots:a:*"))
	assert.Equal(t, []string{"venyuk:slots:b:1"}, mr.Keys())

	require.NoError(t, svc.Delete(ctx, "venyuk:slots:b:1"))
	assert.False(t, svc.Exists(ctx, "venyuk:slots:b:1"))
}

func TestIncr(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	svc := NewService(client)
	ctx := context.Background()

	n, err := svc.Incr(ctx, "venyuk:slotgen:a:1", time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = svc.Incr(ctx, "venyuk:slotgen:a:1", time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, time.Hour, mr.TTL("venyuk:slotgen:a:1"))

	var gen int64
	require.NoError(t, svc.Get(ctx, "venyuk:slotgen:a:1", &gen))
	assert.EqualValues(t, 2, gen)
}

func TestNoopService(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	var dest slotGrid
	assert.ErrorIs(t, svc.Get(ctx, "k", &dest), ErrCacheMiss)

	calls := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, svc.GetOrSet(ctx, "k", time.Minute, func() (interface{}, error) {
			calls++
			return slotGrid{VenueID: "v"}, nil
		}, &dest))
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, "v", dest.VenueID)
	assert.NoError(t, svc.Ping(ctx))
}
