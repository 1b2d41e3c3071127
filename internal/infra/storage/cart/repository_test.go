package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// fakeRedis хранит значения в map и отдаёт настоящие *redis.*Cmd
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), f.err)
}

func TestRedisRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key is an empty cart", func(t *testing.T) {
		repo := NewRedisRepository(newFakeRedis(), time.Hour)

		c, err := repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("save and get round trip with ttl", func(t *testing.T) {
		fake := newFakeRedis()
		repo := NewRedisRepository(fake, 30*time.Minute)

		c := &domain.Cart{Lines: []domain.CartLine{{ServiceID: 2, Quantity: 3}, {ServiceID: 1, Quantity: 1}}}
		require.NoError(t, repo.Save(ctx, "1", c))
		assert.Equal(t, 30*time.Minute, fake.ttls["cart:1"])

		got, err := repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, c.Lines, got.Lines)
	})

	t.Run("saving empty cart deletes key", func(t *testing.T) {
		fake := newFakeRedis()
		fake.values["cart:1"] = `{"lines":[{"service_id":1,"quantity":1}]}`
		repo := NewRedisRepository(fake, time.Hour)

		require.NoError(t, repo.Save(ctx, "1", &domain.Cart{}))
		_, ok := fake.values["cart:1"]
		assert.False(t, ok)
	})

	t.Run("corrupted value", func(t *testing.T) {
		fake := newFakeRedis()
		fake.values["cart:1"] = "not json"
		repo := NewRedisRepository(fake, time.Hour)

		_, err := repo.Get(ctx, "1")
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("connection error", func(t *testing.T) {
		fake := newFakeRedis()
		fake.err = errors.New("dial tcp: connection refused")
		repo := NewRedisRepository(fake, time.Hour)

		_, err := repo.Get(ctx, "1")
		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, repo.Save(ctx, "1", &domain.Cart{Lines: []domain.CartLine{{ServiceID: 1, Quantity: 1}}}), ErrStorage)
	})
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("stored cart is isolated from caller mutations", func(t *testing.T) {
		repo := NewMemoryRepository(time.Hour)
		c := &domain.Cart{Lines: []domain.CartLine{{ServiceID: 1, Quantity: 1}}}
		require.NoError(t, repo.Save(ctx, "1", c))

		c.Lines[0].Quantity = 9

		got, err := repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Lines[0].Quantity)
	})

	t.Run("expired cart is empty", func(t *testing.T) {
		repo := NewMemoryRepository(time.Minute)
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return now }

		require.NoError(t, repo.Save(ctx, "1", &domain.Cart{Lines: []domain.CartLine{{ServiceID: 1, Quantity: 1}}}))
		now = now.Add(2 * time.Minute)

		got, err := repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
	})

	t.Run("delete", func(t *testing.T) {
		repo := NewMemoryRepository(time.Hour)
		require.NoError(t, repo.Save(ctx, "1", &domain.Cart{Lines: []domain.CartLine{{ServiceID: 1, Quantity: 1}}}))
		require.NoError(t, repo.Delete(ctx, "1"))

		got, err := repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
	})
}
