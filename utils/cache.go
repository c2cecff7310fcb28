// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"servio/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// LockClient is the dedicated client for distributed locks.
	LockClient *redis.Client
)

func newRedisClient(db int, purpose string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", purpose, err)
	}
	return client
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitLockStore initializes the Redis client used for distributed locks.
func InitLockStore() {
	LockClient = newRedisClient(config.AppConfig.RedisLockDB, "Lock")
}

// GetLockClient returns the Redis client used for distributed locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockStore()
	}
	return LockClient
}
