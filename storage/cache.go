package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"phonexchange_backend/models"
	"phonexchange_backend/utils"

	"github.com/redis/go-redis/v9"
)

const (
	cachePrefix = "phonexchange:"
	scanBatch   = 100
)

// CachedStore puts a Redis read-through cache in front of the reference
// data reads (brands, models by brand, questions). Redis faults are logged
// and the read falls through to the wrapped store.
type CachedStore struct {
	Store
	rdb *redis.Client
	ttl time.Duration
	log utils.Logger
}

func NewCachedStore(store Store, rdb *redis.Client, ttl time.Duration, log utils.Logger) *CachedStore {
	return &CachedStore{
		Store: store,
		rdb:   rdb,
		ttl:   ttl,
		log:   log.WithFields(map[string]interface{}{"component": "catalog_cache"}),
	}
}

// NewRedisClient parses a redis:// URL, or treats the value as host:port.
func NewRedisClient(url string) (*redis.Client, error) {
	opts := &redis.Options{Addr: url}
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}

func brandsKey() string               { return cachePrefix + "brands" }
func modelsKey(brandID string) string { return cachePrefix + "models:" + brandID }
func questionsKey() string            { return cachePrefix + "questions" }

// cached is the read-through helper: try key, else load and store.
func cached[T any](ctx context.Context, c *CachedStore, key string, load func() ([]T, error)) ([]T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			return out, nil
		}
		c.log.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	out, err := load()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(out)
	if err == nil {
		err = c.rdb.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.log.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return out, nil
}

func (c *CachedStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return cached(ctx, c, brandsKey(), func() ([]models.Brand, error) {
		return c.Store.ListBrands(ctx)
	})
}

func (c *CachedStore) ListModelsByBrand(ctx context.Context, brandID string) ([]models.PhoneModel, error) {
	return cached(ctx, c, modelsKey(brandID), func() ([]models.PhoneModel, error) {
		return c.Store.ListModelsByBrand(ctx, brandID)
	})
}

// ListQuestions caches the already ordered list. Position is not part of the
// JSON form, so slice order carries it.
func (c *CachedStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return cached(ctx, c, questionsKey(), func() ([]models.Question, error) {
		return c.Store.ListQuestions(ctx)
	})
}

// InsertCatalog writes through and then drops every cached catalog key.
func (c *CachedStore) InsertCatalog(ctx context.Context, catalog *Catalog) error {
	if err := c.Store.InsertCatalog(ctx, catalog); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

// Invalidate drops every key under the cache prefix, walking the keyspace
// with SCAN so a large instance is never blocked.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, cachePrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *CachedStore) Ping(ctx context.Context) error {
	if err := c.Store.Ping(ctx); err != nil {
		return err
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *CachedStore) Close() error {
	rerr := c.rdb.Close()
	if err := c.Store.Close(); err != nil {
		return err
	}
	return rerr
}
