package store

import (
	"context"
	"testing"
	"time"

	"bekind-internal/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisKV(rdb), mr
}

func TestRedisKV_GetMissAndDelete(t *testing.T) {
	kv, _ := newRedisKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "a", "1", 0))
	v, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, kv.Delete(ctx, "a"))
	_, err = kv.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, kv.Delete(ctx))
}

func TestSessionStore_Lifecycle(t *testing.T) {
	kv, mr := newRedisKV(t)
	s := NewSessionStore(kv, time.Hour)
	ctx := context.Background()

	acc := domain.Account{ID: 7, FullName: "Lan", PhoneNumber: "0903", Role: domain.RoleMarketer}
	sess, err := s.Create(ctx, acc)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.Account().ID)
	assert.Equal(t, domain.RoleMarketer, got.Role)

	mr.FastForward(2 * time.Hour)
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_Logout(t *testing.T) {
	kv, _ := newRedisKV(t)
	s := NewSessionStore(kv, time.Hour)
	ctx := context.Background()

	sess, err := s.Create(ctx, domain.Account{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, sess.ID))

	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_RevokeAccount(t *testing.T) {
	for name, kv := range map[string]KV{
		"redis":  func() KV { kv, _ := newRedisKV(t); return kv }(),
		"memory": NewMemoryKV(),
	} {
		t.Run(name, func(t *testing.T) {
			s := NewSessionStore(kv, time.Hour)
			ctx := context.Background()

			a1, _ := s.Create(ctx, domain.Account{ID: 5, Role: domain.RoleManager})
			a2, _ := s.Create(ctx, domain.Account{ID: 5, Role: domain.RoleManager})
			other, _ := s.Create(ctx, domain.Account{ID: 6, Role: domain.RoleManager})

			n, err := s.RevokeAccount(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			_, err = s.Get(ctx, a1.ID)
			assert.ErrorIs(t, err, ErrNoSession)
			_, err = s.Get(ctx, a2.ID)
			assert.ErrorIs(t, err, ErrNoSession)
			_, err = s.Get(ctx, other.ID)
			assert.NoError(t, err)
		})
	}
}

func TestMemoryKV_Expiry(t *testing.T) {
	kv := NewMemoryKV()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(time.Minute)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
