package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/desertthunder/moviex/internal/shared"
)

// DefaultRedisPrefix namespaces cookie keys.
const DefaultRedisPrefix = "moviex:cookie:"

// RedisStore keeps each entry under its own key, letting redis expire it.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed session store. An empty prefix uses [DefaultRedisPrefix].
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisClient connects to addr and pings it before returning.
func NewRedisClient(ctx context.Context, cfg shared.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping %s: %v", shared.ErrSessionStore, cfg.Addr, err)
	}
	return client, nil
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

func (r *RedisStore) Get(ctx context.Context, name string) (Entry, error) {
	val, err := r.client.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}

	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, fmt.Errorf("%w: failed to unmarshal entry %s: %v", shared.ErrSessionStore, name, err)
	}
	if e.Expired(time.Now()) {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *RedisStore) Set(ctx context.Context, e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: entry name", shared.ErrMissingArgument)
	}

	var ttl time.Duration
	if !e.Expires.IsZero() {
		ttl = time.Until(e.Expires)
		if ttl <= 0 {
			return r.client.Del(ctx, r.key(e.Name)).Err()
		}
	}
	if e.Path == "" {
		e.Path = DefaultPath
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal entry: %v", shared.ErrSessionStore, err)
	}
	return r.client.Set(ctx, r.key(e.Name), data, ttl).Err()
}

// All returns every entry under the prefix, sorted by name.
func (r *RedisStore) All(ctx context.Context) ([]Entry, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e, err := r.Get(ctx, k[len(r.prefix):])
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	keys, err := r.keys(ctx)
	if err != nil || len(keys) == 0 {
		return err
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return nil
}

func (r *RedisStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", shared.ErrSessionStore, r.prefix, err)
	}
	return keys, nil
}
