package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGormBackend(t *testing.T) (*GormBackend, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "kv.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&KVEntry{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewGormBackend(db), db
}

func TestGormBackend(t *testing.T) {
	ctx := context.Background()
	backend, db := newGormBackend(t)

	_, err := backend.Get(ctx, "device:abc:cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Set(ctx, "device:abc:cart", `[{"id":"1"}]`))
	require.NoError(t, backend.Set(ctx, "device:abc:cart", `[]`))

	value, err := backend.Get(ctx, "device:abc:cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	var rows int64
	require.NoError(t, db.Model(&KVEntry{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "set should upsert, not insert a second row")

	require.NoError(t, backend.Set(ctx, "device:xyz:cart", `[{"id":"2"}]`))
	require.NoError(t, backend.Delete(ctx, "device:abc:cart"))
	_, err = backend.Get(ctx, "device:abc:cart")
	assert.ErrorIs(t, err, ErrNotFound)

	value, err = backend.Get(ctx, "device:xyz:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"2"}]`, value)

	assert.NoError(t, backend.Delete(ctx, "device:missing:cart"))
}

func newRedisBackend(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBackend(client, "storefront:", ttl), server
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	backend, server := newRedisBackend(t, 0)

	_, err := backend.Get(ctx, "session:abc:auth")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Set(ctx, "session:abc:auth", `{"id":1}`))
	assert.True(t, server.Exists("storefront:session:abc:auth"))
	assert.Zero(t, server.TTL("storefront:session:abc:auth"))

	value, err := backend.Get(ctx, "session:abc:auth")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, value)

	require.NoError(t, backend.Delete(ctx, "session:abc:auth"))
	assert.False(t, server.Exists("storefront:session:abc:auth"))
	_, err = backend.Get(ctx, "session:abc:auth")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackendExpiry(t *testing.T) {
	ctx := context.Background()
	backend, server := newRedisBackend(t, 10*time.Minute)
	key := "storefront:session:abc:auth"

	require.NoError(t, backend.Set(ctx, "session:abc:auth", `{"id":1}`))
	assert.Equal(t, 10*time.Minute, server.TTL(key))

	// reading pushes the expiry back
	server.FastForward(6 * time.Minute)
	_, err := backend.Get(ctx, "session:abc:auth")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, server.TTL(key))

	server.FastForward(11 * time.Minute)
	_, err = backend.Get(ctx, "session:abc:auth")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackendUnavailable(t *testing.T) {
	backend, server := newRedisBackend(t, 0)
	server.Close()

	_, err := backend.Get(context.Background(), "session:abc:auth")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
