package activity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ashfall/internal/domain"
)

func TestScheduler_TickCompletesInOrder(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler()
	short := Activity{ID: uuid.New(), Kind: KindCraft, Owner: "ava", Moves: 100}
	long := Activity{ID: uuid.New(), Kind: KindCraft, Owner: "bo", Moves: 250, Long: true}
	instant := Activity{ID: uuid.New(), Kind: KindDisassemble, Owner: "ava"}

	require.NoError(t, s.Schedule(ctx, short))
	require.NoError(t, s.Schedule(ctx, long))
	require.NoError(t, s.Schedule(ctx, instant))

	done := s.Tick(ctx, 0)
	require.Len(t, done, 1)
	assert.Equal(t, instant.ID, done[0].ID)

	done = s.Tick(ctx, 100)
	require.Len(t, done, 1)
	assert.Equal(t, short.ID, done[0].ID)

	got, ok := s.Get(long.ID)
	require.True(t, ok)
	assert.Equal(t, 150, got.Remaining())

	assert.Empty(t, s.Tick(ctx, 149))
	done = s.Tick(ctx, 500)
	require.Len(t, done, 1)
	assert.Equal(t, 250, done[0].Elapsed)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_RescheduleKeepsProgress(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler()
	a := Activity{ID: uuid.New(), Kind: KindCraft, Owner: "ava", Moves: 100}

	require.NoError(t, s.Schedule(ctx, a))
	s.Tick(ctx, 40)
	require.NoError(t, s.Schedule(ctx, a))

	got, _ := s.Get(a.ID)
	assert.Equal(t, 40, got.Elapsed)
	assert.Len(t, s.Active(), 1)
}

func TestScheduler_Cancel(t *testing.T) {
	ctx := context.Background()
	s := NewScheduler()
	a := Activity{ID: uuid.New(), Moves: 10}
	b := Activity{ID: uuid.New(), Moves: 10}
	require.NoError(t, s.Schedule(ctx, a))
	require.NoError(t, s.Schedule(ctx, b))

	assert.True(t, s.Cancel(ctx, a.ID))
	assert.False(t, s.Cancel(ctx, a.ID))

	done := s.Tick(ctx, 10)
	require.Len(t, done, 1)
	assert.Equal(t, b.ID, done[0].ID)
}

func TestScheduler_RejectsInvalid(t *testing.T) {
	s := NewScheduler()
	err := s.Schedule(context.Background(), Activity{Moves: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	err = s.Schedule(context.Background(), Activity{ID: uuid.New(), Moves: -1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func storeContract(t *testing.T, store Store) {
	ctx := context.Background()
	payload := json.RawMessage(`{"recipe":"box"}`)
	a := Record{Activity: Activity{ID: uuid.New(), Kind: KindCraft, Owner: "ava", Moves: 300, Elapsed: 120, Long: true}, Payload: payload}
	b := Record{Activity: Activity{ID: uuid.New(), Kind: KindCraft, Owner: "ava", Moves: 10}}
	other := Record{Activity: Activity{ID: uuid.New(), Kind: KindCraft, Owner: "bo", Moves: 10}}

	for _, rec := range []Record{a, b, other} {
		require.NoError(t, store.Save(ctx, rec))
	}

	got, err := store.Load(ctx, a.Activity.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Activity, got.Activity)
	assert.JSONEq(t, string(payload), string(got.Payload))

	list, err := store.ListByOwner(ctx, "ava")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.Delete(ctx, a.Activity.ID))
	require.NoError(t, store.Delete(ctx, a.Activity.ID))
	_, err = store.Load(ctx, a.Activity.ID)
	assert.True(t, errors.Is(err, domain.ErrActivityNotFound))

	list, err = store.ListByOwner(ctx, "ava")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.Activity.ID, list[0].Activity.ID)

	assert.Error(t, store.Save(ctx, Record{}))
}

func TestRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	storeContract(t, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStore_ExpiredRecordsLeaveOwnerSet(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	rec := Record{Activity: Activity{ID: uuid.New(), Owner: "ava", Moves: 10}}
	require.NoError(t, store.Save(ctx, rec))

	mr.Del(activityKey(rec.Activity.ID))

	list, err := store.ListByOwner(ctx, "ava")
	require.NoError(t, err)
	assert.Empty(t, list)
	members, _ := mr.Members(ownerKey("ava"))
	assert.Empty(t, members)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	rec := Record{Activity: Activity{ID: uuid.New(), Owner: "ava", Moves: 10}}
	require.NoError(t, store.Save(ctx, rec))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx, rec.Activity.ID)
	assert.True(t, errors.Is(err, domain.ErrActivityNotFound))
}
