package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T, path, session string) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(path, session)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

// redisAddrEnv points the redis tests at a server; they are skipped
// without one.
const redisAddrEnv = "CAMPUSCALM_TEST_REDIS_ADDR"

func newRedis(t *testing.T, addr, session string) *RedisStore {
	t.Helper()
	s, err := NewRedisStore(context.Background(), addr, session, 60)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Clear(context.Background())
		_ = s.Close()
	})
	return s
}

func TestRedisStore_SessionTTL(t *testing.T) {
	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		t.Skip(redisAddrEnv + " not set")
	}
	ctx := context.Background()
	a := newRedis(t, addr, "ttl-a")
	b := newRedis(t, addr, "ttl-b")

	require.NoError(t, a.Set(ctx, "k", "v"))
	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	ttl, err := a.rdb.TTL(ctx, a.sessionKey()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, Options{Backend: BackendRedis, SessionID: "s", RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestStores_Contract(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newSQLite(t, ":memory:", "s1") },
	}
	if addr := os.Getenv(redisAddrEnv); addr != "" {
		backends["redis"] = func(t *testing.T) Store { return newRedis(t, addr, "s1") }
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "k", "v1"))
			require.NoError(t, s.Set(ctx, "k", "v2"))
			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", got)

			require.NoError(t, s.Delete(ctx, "k"))
			require.NoError(t, s.Delete(ctx, "k"))
			_, err = s.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "a", "1"))
			require.NoError(t, s.Set(ctx, "b", "2"))
			require.NoError(t, s.Clear(ctx))
			_, err = s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteStore_SessionsAreIsolatedAndSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := NewSQLiteStore(path, "tab-1")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "key", "from tab 1"))
	require.NoError(t, first.Close())

	other := newSQLite(t, path, "tab-2")
	_, err = other.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)

	reopened := newSQLite(t, path, "tab-1")
	got, err := reopened.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "from tab 1", got)

	require.NoError(t, reopened.Clear(ctx))
	_, err = reopened.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{Backend: BackendMemory})
	assert.Error(t, err, "empty session id")

	_, err = Open(ctx, Options{Backend: "floppy", SessionID: "x"})
	assert.Error(t, err)

	s, err := Open(ctx, Options{Backend: BackendMemory, SessionID: "x"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Get(context.Context, string) (string, error) { return "", f.err }
func (f *failingStore) Set(context.Context, string, string) error   { return f.err }

func TestBestEffort_SwallowsAndReports(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	var reported []Op
	b := NewBestEffort(&failingStore{err: boom}, func(op Op, key string, err error) {
		assert.Equal(t, "k", key)
		assert.ErrorIs(t, err, boom)
		reported = append(reported, op)
	})

	b.Write(ctx, "k", "v")
	v, ok := b.Read(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.Equal(t, []Op{OpWrite, OpRead}, reported)
}

func TestBestEffort_NotFoundIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	called := false
	b := NewBestEffort(NewMemoryStore(), func(Op, string, error) { called = true })

	_, ok := b.Read(ctx, "nothing")
	assert.False(t, ok)
	assert.False(t, called)

	b.Write(ctx, "k", "v")
	v, ok := b.Read(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestBestEffort_NilStore(t *testing.T) {
	var b *BestEffort
	b.Write(context.Background(), "k", "v")
	_, ok := b.Read(context.Background(), "k")
	assert.False(t, ok)
}
