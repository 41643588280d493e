// Package memcache is the memcached-backed domain.Cache, selected with CACHE_BACKEND=memcache.
package memcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"

	"hotel_catalog/internal/adapters/observability"
)

type Cache struct {
	client *memcache.Client
	prefix string
}

func New(servers ...string) *Cache {
	return &Cache{client: memcache.New(servers...), prefix: "catalog:"}
}

// Get ignores ctx; the memcache client has its own per-call timeout.
func (m *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	item, err := m.client.Get(m.prefix + key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		observability.ObserveCache("memcache", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("memcache", "hit")
	if err := json.Unmarshal(item.Value, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (m *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	observability.ObserveCache("memcache", "set")
	return m.client.Set(&memcache.Item{
		Key:        m.prefix + key,
		Value:      b,
		Expiration: int32(ttlSec),
	})
}

func (m *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("memcache", "del")
	err := m.client.Delete(m.prefix + key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}
