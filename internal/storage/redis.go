package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/workflow-admin/workflow-admin/internal/config"
	"github.com/workflow-admin/workflow-admin/internal/logger/adapter/stdlogger"
)

const (
	redisKeyPrefix   = "workflow-admin:session:"
	redisPingTimeout = 5 * time.Second
	redisOpTimeout   = 3 * time.Second
)

// Redis is a fiber.Storage backed by a go-redis client.
type Redis struct {
	client *redis.Client
}

var _ fiber.Storage = (*Redis)(nil)

// NewRedis connects to redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg config.Redis) (*Redis, error) {
	redis.SetLogger(stdlogger.New("redis"))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage/redis: ping: %w", err)
	}

	return NewRedisFromClient(client), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// Get returns nil without error for unknown keys, like the other fiber storages.
func (r *Redis) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	ctx, cancel := opContext()
	defer cancel()

	val, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	return val, err
}

// Set stores val; a zero exp keeps the key forever.
func (r *Redis) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	ctx, cancel := opContext()
	defer cancel()

	return r.client.Set(ctx, redisKeyPrefix+key, val, exp).Err()
}

// Delete removes key.
func (r *Redis) Delete(key string) error {
	if key == "" {
		return nil
	}

	ctx, cancel := opContext()
	defer cancel()

	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Reset removes every session key, leaving other keys of the database alone.
func (r *Redis) Reset() error {
	ctx, cancel := opContext()
	defer cancel()

	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator() //nolint:mnd
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
