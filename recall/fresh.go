package recall

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Fresh 是新鲜度召回源：最新发布的内容，给 feed 保底时效性。
type Fresh struct {
	Repo core.NewsRepository
}

func (r *Fresh) Name() string { return StrategyFresh }

func (r *Fresh) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if r.Repo == nil || limit <= 0 {
		return nil, nil
	}

	filters := rctx.EffectiveFilters()

	var (
		items []*core.NewsItem
		err   error
	)
	if filters.CategoryID != 0 {
		items, err = r.Repo.Query(ctx, core.NewsQuery{
			CategoryID: filters.CategoryID,
			Sort:       core.SortByPublishedAt,
			Limit:      limit,
		})
	} else {
		items, err = r.Repo.Latest(ctx, limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(items))
	for _, it := range items {
		c := core.NewCandidate(it, StrategyFresh, 0)
		c.Reason = "Just published"
		c.PutLabel("recall_source", core.Label{Value: StrategyFresh, Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
