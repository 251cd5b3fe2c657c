package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// MMR 是多样性重排节点，使用 MMR（Maximal Marginal Relevance）贪心策略
// 在相关性和多样性之间做权衡。
//
// 每一轮从剩余候选中挑选边际得分最高的一个：
//
//	marginal = score - pref * (CategoryPenalty*nSameCategory + SourcePenalty*nSameSource)
//
// 其中 nSameCategory / nSameSource 是已选集合中同类目/同来源的数量，
// pref 是用户画像的 diversity_preference。边际得分不会为负（下限 0）。
//
// pref 为 0 时退化为纯分数排序。平分时先比原始分数，再比新闻 ID（小者优先），
// 保证同样输入产出同样顺序。
type MMR struct {
	// CategoryPenalty 每个已选同类目候选的惩罚，默认 0.15
	CategoryPenalty float64
	// SourcePenalty 每个已选同来源候选的惩罚，默认 0.10
	SourcePenalty float64

	// ScoreOrderOnly 忽略多样性偏好，纯按分数排序
	// （请求显式关闭多样性重排时由编排层设置）
	ScoreOrderOnly bool
}

func (n *MMR) Name() string {
	return "rerank.mmr"
}

func (n *MMR) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *MMR) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) <= 1 {
		return cands, nil
	}

	pref := 0.0
	if !n.ScoreOrderOnly && rctx != nil && rctx.Signal != nil {
		pref = rctx.Signal.DiversityPreference
	}

	// 先按分数降序、ID 升序排好，pref=0 时直接返回，
	// pref>0 时也让贪心遍历从高分开始
	sorted := make([]*core.Candidate, 0, len(cands))
	for _, c := range cands {
		if c != nil && c.News != nil {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].News.ID < sorted[j].News.ID
	})

	if pref <= 0 {
		return sorted, nil
	}

	categoryPenalty := n.CategoryPenalty
	if categoryPenalty == 0 {
		categoryPenalty = 0.15
	}
	sourcePenalty := n.SourcePenalty
	if sourcePenalty == 0 {
		sourcePenalty = 0.10
	}

	out := make([]*core.Candidate, 0, len(sorted))
	remaining := sorted
	categoryCount := make(map[int64]int)
	sourceCount := make(map[string]int)

	for len(remaining) > 0 {
		bestIdx := -1
		bestMarginal := 0.0
		bestScore := 0.0
		var bestID int64

		for i, c := range remaining {
			penalty := pref * (categoryPenalty*float64(categoryCount[c.News.CategoryID]) +
				sourcePenalty*float64(sourceCount[c.News.Source]))
			marginal := c.Score - penalty
			if marginal < 0 {
				marginal = 0
			}

			if bestIdx < 0 ||
				marginal > bestMarginal ||
				(marginal == bestMarginal && c.Score > bestScore) ||
				(marginal == bestMarginal && c.Score == bestScore && c.News.ID < bestID) {
				bestIdx = i
				bestMarginal = marginal
				bestScore = c.Score
				bestID = c.News.ID
			}
		}

		picked := remaining[bestIdx]
		out = append(out, picked)
		categoryCount[picked.News.CategoryID]++
		sourceCount[picked.News.Source]++
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return out, nil
}

var _ pipeline.Node = (*MMR)(nil)
