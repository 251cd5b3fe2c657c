package recommend

import (
	"context"
	"sort"

	"github.com/rushteam/newsrec/core"
)

// SimilarNews 返回与指定新闻相似的新闻：同类目 + 标签重合度排序。
// 种子新闻不存在返回 NOT_FOUND。
func (s *Service) SimilarNews(ctx context.Context, newsID int64, limit int) ([]*core.RankedNews, error) {
	if newsID <= 0 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: news id must be positive")
	}
	if limit < 1 || limit > maxPageSize {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: limit must be in [1,100]")
	}

	seeds, err := s.News.FindByIDs(ctx, []int64{newsID})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecommend, core.ErrorCodeUnavailable,
			"recommend: news lookup failed", err)
	}
	if len(seeds) == 0 || seeds[0] == nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeNotFound,
			"recommend: news not found")
	}
	seed := seeds[0]

	// 超抓同类目候选，按标签重合度排序后截断
	candidates, err := s.News.Query(ctx, core.NewsQuery{
		CategoryID: seed.CategoryID,
		Sort:       core.SortByPopularity,
		Limit:      limit * 3,
	})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecommend, core.ErrorCodeUnavailable,
			"recommend: similar query failed", err)
	}

	type scored struct {
		item *core.NewsItem
		sim  float64
	}
	pool := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		if item == nil || item.ID == seed.ID {
			continue
		}
		// 同类目保底 0.5，标签 Jaccard 重合度贡献另一半
		pool = append(pool, scored{item: item, sim: 0.5 + 0.5*tagJaccard(seed.Tags, item.Tags)})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].sim != pool[j].sim {
			return pool[i].sim > pool[j].sim
		}
		return pool[i].item.ID < pool[j].item.ID
	})
	if len(pool) > limit {
		pool = pool[:limit]
	}

	out := make([]*core.RankedNews, 0, len(pool))
	for i, sc := range pool {
		out = append(out, &core.RankedNews{
			NewsItem: sc.item,
			Position: i,
			Score:    sc.sim,
			Reason:   "More like this",
		})
	}
	return out, nil
}

// tagJaccard 计算两个标签集合的 Jaccard 重合度，空集合记 0。
func tagJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	for _, t := range b {
		if set[t] {
			inter++
		}
	}
	union := len(set) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
