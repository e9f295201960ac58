// Copyright (c) 2026 ZimFiction. All rights reserved.

package zimwriter

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupCache maps a content hash to the path it was first written under, so
// ZimWriter can turn a second shareable artifact with identical bytes into
// a redirect instead of a second physical blob (spec §4.6).
type DedupCache interface {
	Lookup(ctx stdctx.Context, hash string) (path string, ok bool, err error)
	Store(ctx stdctx.Context, hash, path string) error
}

// NewDedupCache constructs a DedupCache. An empty redisURL falls back to an
// in-process-only cache, scoped to the lifetime of one build; a configured
// URL backs it with Redis so the cache can be warmed or inspected across
// runs (spec.md §2.3 of SPEC_FULL).
func NewDedupCache(ctx stdctx.Context, redisURL string, logger *slog.Logger) (DedupCache, error) {
	if redisURL == "" {
		return newMemoryDedupCache(), nil
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("zimwriter: invalid redis url: %w", err)
	}
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 2 * time.Second
	options.WriteTimeout = 2 * time.Second

	client := redis.NewClient(options)
	pingCtx, cancel := stdctx.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("zimwriter: redis ping failed: %w", err)
	}

	logger.Info("zimwriter: redis dedup cache connected", slog.String("addr", options.Addr))
	return &redisDedupCache{client: client}, nil
}

// memoryDedupCache is the default, always-available fallback: a mutex-
// guarded map, good for exactly one build's lifetime.
type memoryDedupCache struct {
	mu    sync.Mutex
	byKey map[string]string
}

func newMemoryDedupCache() *memoryDedupCache {
	return &memoryDedupCache{byKey: make(map[string]string)}
}

func (c *memoryDedupCache) Lookup(_ stdctx.Context, hash string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, ok := c.byKey[hash]
	return path, ok, nil
}

func (c *memoryDedupCache) Store(_ stdctx.Context, hash, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[hash] = path
	return nil
}

// redisDedupCache backs the cache with Redis so dedup survives longer than
// one build's in-process map.
type redisDedupCache struct {
	client *redis.Client
}

const dedupKeyPrefix = "zimfiction:dedup:"

func (c *redisDedupCache) Lookup(ctx stdctx.Context, hash string) (string, bool, error) {
	path, err := c.client.Get(ctx, dedupKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("zimwriter: dedup lookup: %w", err)
	}
	return path, true, nil
}

func (c *redisDedupCache) Store(ctx stdctx.Context, hash, path string) error {
	if err := c.client.Set(ctx, dedupKeyPrefix+hash, path, 0).Err(); err != nil {
		return fmt.Errorf("zimwriter: dedup store: %w", err)
	}
	return nil
}
