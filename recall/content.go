package recall

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/rushteam/newsrec/core"
)

// ContentBased 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢某些类目/标签下的内容，推荐同类目/标签的其他内容"
//
// 流程：
//  1. 取画像里权重最高的前 TopCategories 个类目
//  2. 按类目查询候选（叠加画像的质量下限）
//  3. 按 类目权重 + 标签匹配度 排序取 TopK
//
// 画像缺失或偏好为空时返回空（由编排层的配额回补兜底到热门）。
type ContentBased struct {
	Repo core.NewsRepository

	// TopCategories 参与召回的偏好类目数量，默认 3
	TopCategories int

	// TagWeight 标签匹配度在排序中的权重，默认 0.5（类目权重恒为 1.0）
	TagWeight float64
}

func (r *ContentBased) Name() string { return StrategyContent }

func (r *ContentBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if r.Repo == nil || rctx == nil || limit <= 0 {
		return nil, nil
	}

	signal := rctx.Signal
	if signal == nil || len(signal.PreferredCategories) == 0 {
		return nil, nil
	}

	topN := r.TopCategories
	if topN <= 0 {
		topN = 3
	}
	categoryIDs := signal.TopCategories(topN)

	filters := rctx.EffectiveFilters()
	q := core.NewsQuery{
		CategoryIDs: categoryIDs,
		MinQuality:  signal.QualityThreshold,
		Sort:        core.SortByPublishedAt,
		Limit:       limit * 2, // 多取一倍，留给亲和度排序挑选
	}
	if filters.CategoryID != 0 {
		// 请求指定了类目时收敛到单类目
		q.CategoryIDs = nil
		q.CategoryID = filters.CategoryID
	}

	items, err := r.Repo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	type scored struct {
		item     *core.NewsItem
		affinity float64
	}
	tagWeight := r.TagWeight
	if tagWeight <= 0 {
		tagWeight = 0.5
	}

	scores := make([]scored, 0, len(items))
	for _, it := range items {
		aff := signal.CategoryWeight(it.CategoryID) + tagWeight*tagAffinity(signal.PreferredTags, it.Tags)
		if aff <= 0 {
			continue
		}
		scores = append(scores, scored{item: it, affinity: aff})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].affinity != scores[j].affinity {
			return scores[i].affinity > scores[j].affinity
		}
		return scores[i].item.ID < scores[j].item.ID
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}

	out := make([]*core.Candidate, 0, len(scores))
	for _, s := range scores {
		c := core.NewCandidate(s.item, StrategyContent, 0)
		if s.item.CategoryName != "" {
			c.Reason = fmt.Sprintf("Because you read %s", s.item.CategoryName)
		} else {
			c.Reason = "Matches your interests"
		}
		c.PutLabel("recall_source", core.Label{Value: StrategyContent, Source: "recall"})
		c.PutLabel("content_affinity", core.Label{
			Value:  strconv.FormatFloat(s.affinity, 'f', 4, 64),
			Source: "recall",
		})
		out = append(out, c)
	}
	return out, nil
}

// tagAffinity 计算标签偏好与新闻标签集合的余弦匹配度。
// 新闻侧标签按 one-hot 处理。
func tagAffinity(prefs map[string]float64, tags []string) float64 {
	if len(prefs) == 0 || len(tags) == 0 {
		return 0
	}

	var dot, normP, normT float64
	for _, w := range prefs {
		normP += w * w
	}
	for _, tag := range tags {
		normT += 1
		dot += prefs[tag]
	}

	if normP == 0 || normT == 0 {
		return 0
	}
	return dot / (math.Sqrt(normP) * math.Sqrt(normT))
}
