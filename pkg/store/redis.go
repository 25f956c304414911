package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/mockup/pkg/cache"
)

// DefaultRedisPrefix namespaces project keys.
const DefaultRedisPrefix = "mockup:project:"

const (
	redisAttempts = 3
	redisDelay    = 50 * time.Millisecond
)

// RedisStore keeps each project as a JSON string under prefix+id.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the server at addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// transient marks network failures as retryable.
func transient(err error) error {
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) {
		return cache.Retryable(err)
	}
	return err
}

func (s *RedisStore) do(ctx context.Context, fn func() error) error {
	return cache.RetryWithBackoff(ctx, redisAttempts, redisDelay, func() error {
		return transient(fn())
	})
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Project, error) {
	var data []byte
	err := s.do(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, s.key(id)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load %s: %w", id, err)
	}
	return Decode(data)
}

func (s *RedisStore) Save(ctx context.Context, p *Project) error {
	stamp(p, time.Now())
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := s.do(ctx, func() error {
		return s.client.Set(ctx, s.key(p.ID), data, 0).Err()
	}); err != nil {
		return fmt.Errorf("redis: save %s: %w", p.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.do(ctx, func() error {
		return s.client.Del(ctx, s.key(id)).Err()
	}); err != nil {
		return fmt.Errorf("redis: delete %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis: scan: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: mget: %w", err)
	}
	out := make([]Summary, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// deleted between SCAN and MGET
			continue
		}
		p, err := Decode([]byte(str))
		if err != nil {
			continue
		}
		out = append(out, p.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
