package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wudi/inspectkit/config"
)

// Redis stores reports as plain string values under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Cache = (*Redis)(nil)

// RedisOptions maps the configuration onto client options.
func RedisOptions(conf config.KV) *redis.Options {
	return &redis.Options{
		Addr:     net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Password: conf.PW,
		DB:       conf.DB,
	}
}

// NewRedis creates the client without connecting; use Ping to check it.
func NewRedis(conf config.KV, prefix string) *Redis {
	return NewRedisClient(redis.NewClient(RedisOptions(conf)), prefix)
}

func NewRedisClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "inspectkit:pdf:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, pdf []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, pdf, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
