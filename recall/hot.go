package recall

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rushteam/newsrec/core"
)

// Hot 是热门召回源：取时间窗口内 trending_score 最高的新闻。
//
// 读取顺序：
//   - 如果配置了 Store，优先读有序集合里的预计算榜单（ZRange，按分数降序）
//   - 否则（或榜单为空）回源 Repository，并把 ID 列表写回 Store 缓存 5 分钟
//
// 榜单 key 按类目区分：{KeyPrefix}:{categoryID}，全量榜单 categoryID 为 0。
type Hot struct {
	Repo core.NewsRepository

	// Store 可选：预计算热门榜 / ID 缓存
	Store core.KeyValueStore

	// KeyPrefix 默认 "hot:news"
	KeyPrefix string

	// Window 热门时间窗口，默认 24h
	Window time.Duration

	// CacheTTL ID 缓存秒数，默认 300
	CacheTTL int
}

func (r *Hot) Name() string { return StrategyHot }

func (r *Hot) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if r.Repo == nil || limit <= 0 {
		return nil, nil
	}

	filters := rctx.EffectiveFilters()

	// 1. 预计算榜单
	if items, ok := r.fromStore(ctx, filters.CategoryID, limit); ok {
		return r.wrap(items, limit), nil
	}

	// 2. 回源：窗口内按 trending_score 降序
	window := r.Window
	if window <= 0 {
		window = 24 * time.Hour
	}

	q := core.NewsQuery{
		CategoryID:     filters.CategoryID,
		PublishedAfter: rctx.Clock().Add(-window),
		Sort:           core.SortByTrending,
		Limit:          limit,
	}
	items, err := r.Repo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	r.cacheIDs(ctx, filters.CategoryID, items)
	return r.wrap(items, limit), nil
}

func (r *Hot) key(categoryID int64) string {
	prefix := r.KeyPrefix
	if prefix == "" {
		prefix = "hot:news"
	}
	return prefix + ":" + strconv.FormatInt(categoryID, 10)
}

// fromStore 尝试从预计算榜单读取；读到才返回 true。
func (r *Hot) fromStore(ctx context.Context, categoryID int64, limit int) ([]*core.NewsItem, bool) {
	if r.Store == nil {
		return nil, false
	}

	key := r.key(categoryID)
	var ids []int64

	members, err := r.Store.ZRange(ctx, key, 0, int64(limit)-1)
	if err == nil && len(members) > 0 {
		ids = make([]int64, 0, len(members))
		for _, m := range members {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	} else {
		// 上一次回源写入的 JSON ID 数组（独立 key，避免与榜单的类型冲突）
		data, err := r.Store.Get(ctx, key+":ids")
		if err == nil {
			var parsed []int64
			if json.Unmarshal(data, &parsed) == nil {
				ids = parsed
			}
		}
	}

	if len(ids) == 0 {
		return nil, false
	}
	items, err := r.Repo.FindByIDs(ctx, ids)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	return items, true
}

// cacheIDs 把回源结果的 ID 列表写回 Store；失败只影响下次命中率，忽略。
func (r *Hot) cacheIDs(ctx context.Context, categoryID int64, items []*core.NewsItem) {
	if r.Store == nil || len(items) == 0 {
		return
	}
	ttl := r.CacheTTL
	if ttl <= 0 {
		ttl = 300
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if data, err := json.Marshal(ids); err == nil {
		_ = r.Store.Set(ctx, r.key(categoryID)+":ids", data, ttl)
	}
}

func (r *Hot) wrap(items []*core.NewsItem, limit int) []*core.Candidate {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]*core.Candidate, 0, len(items))
	for _, it := range items {
		c := core.NewCandidate(it, StrategyHot, 0)
		c.Reason = "Trending now"
		c.PutLabel("recall_source", core.Label{Value: StrategyHot, Source: "recall"})
		out = append(out, c)
	}
	return out
}
