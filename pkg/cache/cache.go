package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs
const (
	TTLPublished = 30 * time.Second // public listing, refreshed often
	TTLCategory  = 10 * time.Minute // categories rarely change
	TTLDefault   = 5 * time.Minute
)

// Key prefixes
const (
	PrefixPublished = "content:published:"
	PrefixCategory  = "category:"
)

// ErrUnavailable is returned by reads when no Redis client is configured
var ErrUnavailable = errors.New("redis not available")

// Service is the Redis-backed cache used by read paths
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Published listing cache
	GetPublished(ctx context.Context, q PublishedQuery, dest interface{}) error
	SetPublished(ctx context.Context, q PublishedQuery, data interface{}) error
	InvalidatePublished(ctx context.Context) error

	// Category cache
	GetCategories(ctx context.Context, dest interface{}) error
	SetCategories(ctx context.Context, data interface{}) error
	InvalidateCategories(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// PublishedQuery identifies one cached page of the public listing
type PublishedQuery struct {
	CategoryID  uint64
	ContentType string
	Search      string
	Page        int
	Limit       int
}

// Key returns the cache key for the query
func (q PublishedQuery) Key() string {
	v := url.Values{}
	if q.CategoryID > 0 {
		v.Set("c", fmt.Sprintf("%d", q.CategoryID))
	}
	if q.ContentType != "" {
		v.Set("t", q.ContentType)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	v.Set("p", fmt.Sprintf("%d", q.Page))
	v.Set("l", fmt.Sprintf("%d", q.Limit))
	return PrefixPublished + v.Encode()
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service; a nil client yields a no-op cache
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return ErrUnavailable
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ========================================
// Published listing
// ========================================

func (c *redisCache) GetPublished(ctx context.Context, q PublishedQuery, dest interface{}) error {
	return c.Get(ctx, q.Key(), dest)
}

func (c *redisCache) SetPublished(ctx context.Context, q PublishedQuery, data interface{}) error {
	return c.Set(ctx, q.Key(), data, TTLPublished)
}

func (c *redisCache) InvalidatePublished(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixPublished+"*")
}

// ========================================
// Categories
// ========================================

func (c *redisCache) GetCategories(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, PrefixCategory+"all", dest)
}

func (c *redisCache) SetCategories(ctx context.Context, data interface{}) error {
	return c.Set(ctx, PrefixCategory+"all", data, TTLCategory)
}

func (c *redisCache) InvalidateCategories(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixCategory+"*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
