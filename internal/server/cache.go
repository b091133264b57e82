package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-robohash-kit/internal/config"
)

// avatarCache はエンコード済みアバターの TTL キャッシュなのだ。
// 保持するバイト数の合計は maxBytes を超えないのだ。
type avatarCache struct {
	items    *cache.Cache // nil ならキャッシュしないのだ
	maxBytes int64
	used     atomic.Int64
	mu       sync.Mutex // put の直列化用なのだ
}

// newAvatarCache は ttl か maxBytes が 0 以下なら無効なキャッシュを返すのだ。
func newAvatarCache(ttl time.Duration, maxBytes int64) *avatarCache {
	c := &avatarCache{maxBytes: maxBytes}
	if ttl <= 0 || maxBytes <= 0 {
		return c
	}
	c.items = cache.New(ttl, config.DefaultCacheCleanup)
	c.items.OnEvicted(func(_ string, v any) {
		c.used.Add(-int64(len(v.(*encoded).data)))
	})
	return c
}

func (c *avatarCache) get(key string) (*encoded, bool) {
	if c.items == nil {
		return nil, false
	}
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*encoded), true
}

// put は予算内に収まるときだけ e を保存し、保存したかどうかを返すのだ。
func (c *avatarCache) put(key string, e *encoded) bool {
	if c.items == nil {
		return false
	}
	size := int64(len(e.data))
	if size > c.maxBytes {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 期限切れで残っている古い値も OnEvicted で差し引かれるのだ。
	c.items.Delete(key)
	if c.used.Load()+size > c.maxBytes {
		c.items.DeleteExpired()
		if c.used.Load()+size > c.maxBytes {
			return false
		}
	}
	c.used.Add(size)
	c.items.Set(key, e, cache.DefaultExpiration)
	return true
}

func (c *avatarCache) len() int {
	if c.items == nil {
		return 0
	}
	return c.items.ItemCount()
}

func (c *avatarCache) bytes() int64 {
	return c.used.Load()
}
