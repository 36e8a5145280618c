package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventwise/store"
)

func TestLeaderboardService_UpsertEntryTracksChange(t *testing.T) {
	svc := NewLeaderboardService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 10))

	entries, err := svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "same", entries[0].Change)
	assert.Equal(t, 10, entries[0].Points)

	require.NoError(t, svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 25))
	entries, err = svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	assert.Equal(t, "up", entries[0].Change)
	assert.Equal(t, 25, entries[0].Points)

	require.NoError(t, svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 5))
	entries, err = svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	assert.Equal(t, "down", entries[0].Change)
}

func TestLeaderboardService_ConcurrentUpsertsKeepOneEntry(t *testing.T) {
	svc := NewLeaderboardService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 10)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	entries, err := svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].Points)
}

func TestLeaderboardService_TopRanksFromStore(t *testing.T) {
	svc := NewLeaderboardService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 30))
	require.NoError(t, svc.UpsertEntry(ctx, "u2", "e1", "Omar", "", 50))
	require.NoError(t, svc.UpsertEntry(ctx, "u3", "e1", "Ravi", "", 10))
	require.NoError(t, svc.UpsertEntry(ctx, "u4", "other", "Mia", "", 99))

	entries, err := svc.Top(ctx, "e1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Omar", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Dana", entries[1].Name)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardService_UpsertWritesRedisZSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewLeaderboardService(store.NewMemoryStore(), db)
	ctx := context.Background()

	mock.ExpectZAdd("leaderboard:e1", redis.Z{Score: 40, Member: "u1"}).SetVal(1)

	require.NoError(t, svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 40))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardService_UpsertSurvivesRedisFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewLeaderboardService(store.NewMemoryStore(), db)
	ctx := context.Background()

	mock.ExpectZAdd("leaderboard:e1", redis.Z{Score: 40, Member: "u1"}).SetErr(errors.New("connection lost"))

	// The store write is the source of truth; a ZAdd failure only logs.
	require.NoError(t, svc.UpsertEntry(ctx, "u1", "e1", "Dana", "", 40))

	entries, err := svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLeaderboardService_TopUsesRedisOrdering(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mem := store.NewMemoryStore()
	svc := NewLeaderboardService(mem, db)
	ctx := context.Background()

	// Seed entries directly so no ZAdd expectations interleave.
	fallback := NewLeaderboardService(mem, nil)
	require.NoError(t, fallback.UpsertEntry(ctx, "u1", "e1", "Dana", "", 30))
	require.NoError(t, fallback.UpsertEntry(ctx, "u2", "e1", "Omar", "", 50))

	mock.ExpectZRevRange("leaderboard:e1", 0, 9).SetVal([]string{"u2", "u1"})

	entries, err := svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Omar", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Dana", entries[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardService_TopFallsBackWhenRedisErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mem := store.NewMemoryStore()
	svc := NewLeaderboardService(mem, db)
	ctx := context.Background()

	fallback := NewLeaderboardService(mem, nil)
	require.NoError(t, fallback.UpsertEntry(ctx, "u1", "e1", "Dana", "", 30))

	mock.ExpectZRevRange("leaderboard:e1", 0, 9).SetErr(errors.New("connection lost"))

	entries, err := svc.Top(ctx, "e1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dana", entries[0].Name)
}
