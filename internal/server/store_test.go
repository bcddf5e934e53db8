package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/join-board/internal/config"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/logger"
)

func baseConfig() *config.Config {
	return &config.Config{
		GinMode:        "test",
		SessionSecret:  "test-secret",
		SessionStore:   "cookie",
		StorageDriver:  config.DriverMemory,
		StorageKey:     "userDataBase",
		HTTPTimeout:    time.Second,
		LogLevel:       "error",
		LongPress:      200 * time.Millisecond,
		PersistTimeout: time.Second,
		LoginRateLimit: 100,
		LoginRateBurst: 100,
		GuestEmail:     "guest@join.local",
	}
}

func roundTrip(t *testing.T, store kvstore.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", `[]`))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), baseConfig(), logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &kvstore.MemoryStore{}, store)
	roundTrip(t, store)
}

func TestOpenStore_SQLiteMigrates(t *testing.T) {
	cfg := baseConfig()
	cfg.StorageDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "join.db")

	store, closeFn, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &kvstore.GormStore{}, store)
	roundTrip(t, store)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.StorageDriver = config.DriverRedis
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = mr.Port()

	store, closeFn, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &kvstore.RedisStore{}, store)
	roundTrip(t, store)
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	cfg := baseConfig()
	cfg.StorageDriver = config.DriverRedis
	cfg.RedisHost = "127.0.0.1"
	cfg.RedisPort = "1"

	_, _, err := OpenStore(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestOpenStore_Remote(t *testing.T) {
	cfg := baseConfig()
	cfg.StorageDriver = config.DriverRemote
	cfg.StorageURL = "http://127.0.0.1:1/item"
	cfg.StorageToken = "token"

	store, closeFn, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &kvstore.RemoteStore{}, store)
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := baseConfig()
	cfg.StorageDriver = "mongo"

	_, _, err := OpenStore(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestNewSessionStore_Cookie(t *testing.T) {
	store, err := NewSessionStore(baseConfig())
	require.NoError(t, err)
	assert.NotNil(t, store)
}
