package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const syncLockKeyPrefix = "sync:lock:"

// releaseScript deletes the lock only when it is still held by the caller
// that acquired it, so an expired lock re-acquired by another run is never
// released by the first one.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSyncLock implements the SyncLocker port using Redis SETNX with a TTL.
// The TTL bounds how long a crashed run can block subsequent syncs of the
// same product.
type RedisSyncLock struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

var _ integration.SyncLocker = (*RedisSyncLock)(nil)

// NewRedisSyncLock creates a new Redis-backed sync lock
func NewRedisSyncLock(cfg *config.RedisConfig, ttl time.Duration, log *zap.Logger) (*RedisSyncLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSyncLockWithClient(client, ttl, log), nil
}

// NewRedisSyncLockWithClient creates a sync lock with an existing Redis client
func NewRedisSyncLockWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSyncLock {
	return &RedisSyncLock{
		client: client,
		ttl:    ttl,
		log:    log.Named("synclock"),
	}
}

// Acquire takes the lock for the given key. ErrSyncInProgress is returned
// when another run currently holds it.
func (l *RedisSyncLock) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := syncLockKeyPrefix + key
	holder := uuid.New().String()

	ok, err := l.client.SetNX(ctx, redisKey, holder, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !ok {
		return nil, integration.ErrSyncInProgress
	}

	release := func() {
		// Release uses a fresh context so it runs even after the run's
		// context is cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, holder).Err(); err != nil {
			l.log.Warn("Failed to release sync lock",
				zap.String("key", key),
				zap.Error(err))
		}
	}
	return release, nil
}

// Close closes the Redis client
func (l *RedisSyncLock) Close() error {
	return l.client.Close()
}
