package config

import (
	"context"
	"fmt"

	"github.com/op/go-logging"
	"github.com/redis/go-redis/v9"
)

var log = logging.MustGetLogger("log")

// NewRedisClient builds a standalone or sentinel client without connecting.
func NewRedisClient(s RedisSettings) *redis.Client {
	if s.Mode == "sentinel" {
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       s.MasterName,
			SentinelAddrs:    s.Sentinels,
			Password:         s.Password,
			SentinelPassword: s.Password,
			DB:               0,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", s.Host, s.Port),
		Password: s.Password,
		DB:       0,
	})
}

func ConnectRedis(ctx context.Context, s RedisSettings) (*redis.Client, error) {
	rdb := NewRedisClient(s)

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis (%s mode): %w", s.Mode, err)
	}

	log.Infof("action: redis_connect | result: success | mode: %s | reply: %s", s.Mode, pong)
	return rdb, nil
}
