package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the session in Redis under the fixed storage keys,
// optionally namespaced by prefix so several clients can share an
// instance. TTL 0 keeps keys until logout.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

func (r *RedisStore) Load(ctx context.Context) (*Session, error) {
	vals, err := r.client.MGet(ctx, r.key(KeyToken), r.key(KeyEmail), r.key(KeyUsername)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s := Session{
		Token:    asString(vals[0]),
		Email:    asString(vals[1]),
		Username: asString(vals[2]),
	}
	if s.Token == "" && s.Email == "" {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	err := r.client.MSet(ctx,
		r.key(KeyToken), s.Token,
		r.key(KeyEmail), s.Email,
		r.key(KeyUsername), s.Username,
	).Err()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	err := r.client.Del(ctx,
		r.key(KeyToken), r.key(KeyEmail), r.key(KeyUsername), r.key(KeyAccountNumber),
	).Err()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *RedisStore) AccountNumber(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.key(KeyAccountNumber)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load account number: %w", err)
	}
	return val, nil
}

func (r *RedisStore) SetAccountNumber(ctx context.Context, accountNumber string) error {
	if err := r.client.Set(ctx, r.key(KeyAccountNumber), accountNumber, 0).Err(); err != nil {
		return fmt.Errorf("save account number: %w", err)
	}
	return nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
