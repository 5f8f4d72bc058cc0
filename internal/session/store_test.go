package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maasai-craft/internal/checkout"
	"maasai-craft/internal/models"
)

func sampleSession(id string) *checkout.Session {
	s := checkout.NewSession(id)
	s.Cart.Add(models.Product{ID: 3, Name: "Maasai Shuka Blanket", Price: 3200, Sizes: []string{"Standard"}}, "Standard")
	s.Details = models.CustomerDetails{Name: "Lemayian", Email: "lemayian@example.com", Phone: "0712345678"}
	s.Step = checkout.StepPayment
	s.Pending = &checkout.PendingPayment{TxRef: "MC-1-1", Amount: 3500, Method: models.PaymentCard}
	return s
}

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestStores_RoundTrip(t *testing.T) {
	redisStore, _ := setupTestRedis(t)
	stores := map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			want := sampleSession("abc")
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Changing the returned copy must not touch the stored one.
			got.Cart.Clear()
			again, err := store.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Len(t, again.Cart.Lines, 1)

			require.NoError(t, store.Delete(ctx, "abc"))
			_, err = store.Get(ctx, "abc")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30 * time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, sampleSession("a")))
	require.NoError(t, store.Save(ctx, sampleSession("b")))

	now = now.Add(20 * time.Minute)
	require.NoError(t, store.Save(ctx, sampleSession("b"))) // refreshed

	now = now.Add(15 * time.Minute)
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "b")
	assert.NoError(t, err)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, store.Sweep())
	assert.Empty(t, store.entries)
}

func TestRedisStore_TTLAndKey(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("abc")))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	mr.FastForward(time.Hour + time.Second)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("session:abc", "{not json"))

	_, err := store.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	_, err = DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
