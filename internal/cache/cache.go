package cache

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// item 包装缓存数据和过期时间
type item struct {
	data      interface{}
	expiresAt time.Time
}

// FeedCache 首页信息流的进程内缓存。
// 实例在 main 中创建并注入使用方,不走包级单例;
// 时钟可注入,便于测试过期行为。
// 缓存内容与访问者无关,所有人共享同一份。
type FeedCache struct {
	lruCache *lru.Cache[string, item]
	ttl      time.Duration
	now      func() time.Time
}

func New(ttl time.Duration) *FeedCache {
	return NewWithClock(ttl, time.Now)
}

func NewWithClock(ttl time.Duration, now func() time.Time) *FeedCache {
	l, err := lru.New[string, item](128)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &FeedCache{
		lruCache: l,
		ttl:      ttl,
		now:      now,
	}
}

// Get 获取缓存,不存在或已过期返回 false
func (c *FeedCache) Get(key string) (interface{}, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}

	// 检查过期
	if c.now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}

	return val.data, true
}

// Set 写入缓存,按实例 TTL 过期
func (c *FeedCache) Set(key string, data interface{}) {
	c.lruCache.Add(key, item{
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	})
}

// GetOrCompute 命中直接返回,未命中则计算并写入。
// 并发未命中时可能重复计算、互相覆盖,结果等价,可接受。
func (c *FeedCache) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(key, data)
	return data, nil
}

// Delete 删除指定缓存
func (c *FeedCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Clear 清空全部缓存,提供给管理端的运维操作
func (c *FeedCache) Clear() {
	c.lruCache.Purge()
}
