package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

const defaultNamespace = "prefs"

type redisStore struct {
	client    redis.Cmdable
	closer    func() error
	namespace string
	ttl       time.Duration

	mu     sync.Mutex
	closed bool
}

type RedisOption func(*redisStore)

// WithNamespace sets the key prefix (default "prefs").
func WithNamespace(ns string) RedisOption {
	return func(s *redisStore) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithTTL expires entries after d; zero keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(s *redisStore) { s.ttl = d }
}

// Redis returns a Store backed by the given client. Closing the store does
// not close the client.
func Redis(client redis.Cmdable, opts ...RedisOption) Store {
	s := &redisStore{
		client:    client,
		namespace: defaultNamespace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RedisConfig mirrors the connection settings kompanion modules load from
// the "prefs.redis" key. InMemory swaps the server for a process-local
// miniredis, which is handy in development and tests.
type RedisConfig struct {
	InMemory     bool          `mapstructure:"in_memory"`
	Network      string        `mapstructure:"network"`
	Addr         string        `mapstructure:"addr"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

func (c RedisConfig) Options() *redis.Options {
	addr := c.Addr
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	return &redis.Options{
		Network:      c.Network,
		Addr:         addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     c.PoolSize,
	}
}

var (
	inMemoryRedisMu     sync.Mutex
	inMemoryRedisServer *miniredis.Miniredis
)

// NewRedisClient builds a go-redis client from config, spinning up a shared
// in-memory server when InMemory is set.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	options := cfg.Options()
	if cfg.InMemory {
		addr, err := ensureInMemoryRedisAddr()
		if err != nil {
			return nil, err
		}
		options.Addr = addr
		options.Network = "tcp"
	}
	return redis.NewClient(options), nil
}

func ensureInMemoryRedisAddr() (string, error) {
	inMemoryRedisMu.Lock()
	defer inMemoryRedisMu.Unlock()

	if inMemoryRedisServer != nil {
		return inMemoryRedisServer.Addr(), nil
	}
	server, err := miniredis.Run()
	if err != nil {
		return "", err
	}
	inMemoryRedisServer = server
	return inMemoryRedisServer.Addr(), nil
}

func (s *redisStore) key(key string) string {
	return s.namespace + ":" + key
}

func (s *redisStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.isClosed() {
		return "", false, ErrClosed
	}
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prefs: redis get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("prefs: redis set %q: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("prefs: redis del %q: %w", key, err)
	}
	return nil
}

func (s *redisStore) Keys(ctx context.Context) ([]string, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	prefix := s.namespace + ":"
	var (
		cursor uint64
		out    []string
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("prefs: redis scan: %w", err)
		}
		for _, k := range keys {
			out = append(out, strings.TrimPrefix(k, prefix))
		}
		cursor = next
		if cursor == 0 {
			return out, nil
		}
	}
}

func (s *redisStore) Clear(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = s.key(k)
	}
	if err := s.client.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("prefs: redis clear: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
