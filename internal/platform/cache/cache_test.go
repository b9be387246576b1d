package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Minute), mr
}

func TestFetchJSONPopulatesAndReuses(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	key, err := store.BuildKey(ctx, "console", "users", "list", "page=1")
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return fixture{Name: "first", Count: calls}, nil
	}

	var got fixture
	require.NoError(t, store.FetchJSON(ctx, key, &got, loader))
	require.Equal(t, fixture{Name: "first", Count: 1}, got)

	var again fixture
	require.NoError(t, store.FetchJSON(ctx, key, &again, loader))
	require.Equal(t, 1, calls)
	require.Equal(t, got, again)
}

func TestBumpInvalidatesEveryKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return fixture{Name: "v", Count: calls}, nil
	}

	keyA, err := store.BuildKey(ctx, "console", "users", "list", "page=1")
	require.NoError(t, err)
	keyB, err := store.BuildKey(ctx, "console", "users", "list", "page=2")
	require.NoError(t, err)

	var out fixture
	require.NoError(t, store.FetchJSON(ctx, keyA, &out, loader))
	require.NoError(t, store.FetchJSON(ctx, keyB, &out, loader))
	require.Equal(t, 2, calls)

	require.NoError(t, store.Bump(ctx))

	keyA2, err := store.BuildKey(ctx, "console", "users", "list", "page=1")
	require.NoError(t, err)
	keyB2, err := store.BuildKey(ctx, "console", "users", "list", "page=2")
	require.NoError(t, err)
	require.NotEqual(t, keyA, keyA2)
	require.NotEqual(t, keyB, keyB2)

	require.NoError(t, store.FetchJSON(ctx, keyA2, &out, loader))
	require.NoError(t, store.FetchJSON(ctx, keyB2, &out, loader))
	require.Equal(t, 4, calls)
}

func TestVersionInitialisesOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	again, err := store.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, first, again)

	require.NoError(t, store.Bump(ctx))
	bumped, err := store.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, first+1, bumped)
}

func TestNilClientIsPassthrough(t *testing.T) {
	store := NewStore(nil, time.Minute)
	ctx := context.Background()

	key, err := store.BuildKey(ctx, "console", "users", "list")
	require.NoError(t, err)
	require.Equal(t, "console:users:list", key)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return fixture{Name: "direct", Count: calls}, nil
	}

	var out fixture
	require.NoError(t, store.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, store.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 2, calls)
	require.Equal(t, fixture{Name: "direct", Count: 2}, out)

	require.NoError(t, store.Bump(ctx))
}
