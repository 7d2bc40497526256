package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to the Redis instance backing the browse cache
// and the submission rate limiter.  The address comes from REDIS_ADDR
// (host:port, default localhost:6379), with REDIS_PASSWORD and REDIS_DB
// optional.  Redis is strictly an accelerator here: on any connection
// failure the function returns nil and both middlewares degrade to
// pass-throughs, leaving the client fully functional.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", addr).
			Warn("redis unavailable, browse cache and rate limiting disabled")
		return nil
	}
	return client
}
