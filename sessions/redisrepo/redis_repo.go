// Package redisrepo keeps session keys in Redis so several machines (or CI agents) can share
// one login profile.
package redisrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	tmserrors "github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
)

var _ sessions.Repo = (*RedisRepo)(nil)

// RedisRepo stores each session key as a plain Redis string under <prefix><profile>:<key>.
// Keys carry no TTL: the refresh token's lifetime is enforced by the backend.
type RedisRepo struct {
	client redis.UniversalClient
	prefix string
}

// New creates a repo for profile. prefix defaults to "tmsctl:".
func New(client redis.UniversalClient, prefix, profile string) *RedisRepo {
	if prefix == "" {
		prefix = "tmsctl:"
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisRepo{
		client: client,
		prefix: prefix + profile + ":",
	}
}

// NewClient builds a client from address/password/db settings.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *RedisRepo) key(k string) string {
	return r.prefix + k
}

func (r *RedisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, tmserrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (r *RedisRepo) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
