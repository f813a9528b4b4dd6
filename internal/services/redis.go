package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bridgeway_site_echo/internal/news"
)

// keyPrefix namespaces every key the site writes
const keyPrefix = "bridgeway:"

// unlockScript deletes a lock only while it still holds the caller's token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCache is the shared store between the web server and the worker. It
// backs news.Cache and the worker's run lock.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redisURL and verifies the connection
func NewRedisCache(redisURL string, log *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("redis connection established", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))
	return &RedisCache{client: client}, nil
}

// Set stores value as JSON under key
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, data, expiration).Err()
}

// Get decodes the JSON stored under key into dest. A missing key is
// news.ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return news.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// TryLock takes the named lock for ttl. It returns the token needed to
// release it, or "" when someone else holds the lock.
func (c *RedisCache) TryLock(ctx context.Context, name string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, keyPrefix+"lock:"+name, token, ttl).Result()
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

// Unlock releases the named lock if token still owns it
func (c *RedisCache) Unlock(ctx context.Context, name, token string) error {
	return unlockScript.Run(ctx, c.client, []string{keyPrefix + "lock:" + name}, token).Err()
}

// Ping checks the connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
