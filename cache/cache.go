// Package cache 提供推荐结果的页级缓存。
//
// 缓存 key 由用户、过滤条件指纹和页码组成，同一个用户在不同过滤条件下
// 的结果互不干扰。用户产生新行为后按用户前缀批量失效。
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/newsrec/core"
)

// DefaultTTL 是推荐结果缓存的默认过期时间（秒）。
const DefaultTTL = 300

// RecommendationCache 把整页推荐结果缓存到 KV 存储。
//
// 缓存故障（读失败、反序列化失败、写失败）一律降级为 miss，
// 不影响推荐主流程。
type RecommendationCache struct {
	Store core.Store

	// TTL 单位秒，<=0 时使用 DefaultTTL
	TTL int

	// KeyPrefix 默认 "rec"
	KeyPrefix string

	Logger zerolog.Logger
}

func New(store core.Store) *RecommendationCache {
	return &RecommendationCache{
		Store: store,
		TTL:   DefaultTTL,
	}
}

func (c *RecommendationCache) prefix() string {
	if c.KeyPrefix != "" {
		return c.KeyPrefix
	}
	return "rec"
}

// Key 生成页级缓存 key："{prefix}:{userID}:{filter指纹}:{page}"。
func (c *RecommendationCache) Key(userID int64, filters *core.Filters, page int) string {
	return fmt.Sprintf("%s:%d:%s:%d", c.prefix(), userID, filters.Fingerprint(), page)
}

// userPrefix 是某个用户所有缓存页的公共前缀（用于批量失效）。
func (c *RecommendationCache) userPrefix(userID int64) string {
	return fmt.Sprintf("%s:%d:", c.prefix(), userID)
}

// Get 读取缓存页，未命中返回 (nil, false)。
// 命中时保留生成时的 recommendation_id，只把 CacheHit 置为 true。
func (c *RecommendationCache) Get(
	ctx context.Context,
	userID int64,
	filters *core.Filters,
	page int,
) (*core.RecommendationPage, bool) {
	if c.Store == nil {
		return nil, false
	}

	key := c.Key(userID, filters, page)
	raw, err := c.Store.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			c.Logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var p core.RecommendationPage
	if err := json.Unmarshal(raw, &p); err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupted")
		_ = c.Store.Delete(ctx, key)
		return nil, false
	}

	p.CacheHit = true
	return &p, true
}

// Set 写入缓存页；失败只记日志。
func (c *RecommendationCache) Set(
	ctx context.Context,
	userID int64,
	filters *core.Filters,
	page int,
	p *core.RecommendationPage,
) {
	if c.Store == nil || p == nil {
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		c.Logger.Warn().Err(err).Msg("cache marshal failed")
		return
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	key := c.Key(userID, filters, page)
	if err := c.Store.Set(ctx, key, raw, ttl); err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate 失效某个用户的全部缓存页，返回删除数量。
// 存储不支持前缀删除时返回 0 而不报错（此时只能等 TTL 过期）。
func (c *RecommendationCache) Invalidate(ctx context.Context, userID int64) int {
	kv, ok := c.Store.(core.KeyValueStore)
	if !ok {
		return 0
	}

	n, err := kv.DeleteByPrefix(ctx, c.userPrefix(userID))
	if err != nil {
		c.Logger.Warn().Err(err).Int64("user_id", userID).Msg("cache invalidate failed")
		return 0
	}
	return n
}
