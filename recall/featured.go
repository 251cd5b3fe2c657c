package recall

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Featured 是精选召回源：运营标记 is_featured 的内容，按发布时间降序。
// 只参与冷启动混合（画像充分的用户靠内容/协同覆盖）。
type Featured struct {
	Repo core.NewsRepository
}

func (r *Featured) Name() string { return StrategyFeatured }

func (r *Featured) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if r.Repo == nil || limit <= 0 {
		return nil, nil
	}

	filters := rctx.EffectiveFilters()
	if !filters.IncludeFeatured {
		return nil, nil
	}

	featured := true
	items, err := r.Repo.Query(ctx, core.NewsQuery{
		CategoryID: filters.CategoryID,
		IsFeatured: &featured,
		Sort:       core.SortByPublishedAt,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(items))
	for _, it := range items {
		c := core.NewCandidate(it, StrategyFeatured, 0)
		c.Reason = "Editor's pick"
		c.PutLabel("recall_source", core.Label{Value: StrategyFeatured, Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
