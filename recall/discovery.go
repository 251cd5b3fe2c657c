package recall

import (
	"context"
	"sort"

	"github.com/rushteam/newsrec/core"
)

// Discovery 是探索召回源：跳出用户既有兴趣圈，推高质量的陌生类目内容。
// 由请求的 explore_ratio 与画像的 novelty_preference 驱动，给 feed 防信息茧房。
type Discovery struct {
	Repo core.NewsRepository

	// MinQuality 探索内容的质量下限，默认 0.6（陌生类目更要拿得出手）
	MinQuality float64
}

func (r *Discovery) Name() string { return StrategyDiscovery }

func (r *Discovery) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if r.Repo == nil || rctx == nil || limit <= 0 {
		return nil, nil
	}

	minQuality := r.MinQuality
	if minQuality <= 0 {
		minQuality = 0.6
	}

	items, err := r.Repo.Query(ctx, core.NewsQuery{
		MinQuality: minQuality,
		Sort:       core.SortByQuality,
		Limit:      limit * 3, // 多取，剔除已偏好类目后再截断
	})
	if err != nil {
		return nil, err
	}

	// 剔除用户已有偏好的类目，留下真正的"陌生"内容
	signal := rctx.Signal
	fresh := make([]*core.NewsItem, 0, len(items))
	for _, it := range items {
		if signal.CategoryWeight(it.CategoryID) > 0 {
			continue
		}
		fresh = append(fresh, it)
	}

	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].QualityScore != fresh[j].QualityScore {
			return fresh[i].QualityScore > fresh[j].QualityScore
		}
		return fresh[i].ID < fresh[j].ID
	})
	if len(fresh) > limit {
		fresh = fresh[:limit]
	}

	out := make([]*core.Candidate, 0, len(fresh))
	for _, it := range fresh {
		c := core.NewCandidate(it, StrategyDiscovery, 0)
		c.Reason = "Something different"
		c.PutLabel("recall_source", core.Label{Value: StrategyDiscovery, Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
