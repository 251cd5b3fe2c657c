package recommend

import (
	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/recall"
)

// 召回混合配比。权重是目标候选池的占比，配额回补见 recall.Fanout。
//
// 冷启动用户没有可用画像，走普适性内容；画像充分的用户以个性化
// 召回为主，保留一部分热门/新鲜内容防止信息茧房。
var (
	coldMix = map[string]float64{
		recall.StrategyHot:      0.6,
		recall.StrategyFeatured: 0.2,
		recall.StrategyFresh:    0.2,
	}

	warmMix = map[string]float64{
		recall.StrategyContent:       0.4,
		recall.StrategyCollaborative: 0.3,
		recall.StrategyHot:           0.2,
		recall.StrategyFresh:         0.1,
	}
)

// mixEntries 按用户冷热选择配比并组装召回源。
//
// 调整规则：
//   - 行为仓库未接入时协同召回不可用，其权重并入内容召回，
//     保证个性化召回在去重归因里仍然优先于热门
//   - filters.fresh_ratio 高于基础配比时抬高新鲜内容占比
//   - filters.explore_ratio > 0 时追加探索召回，画像的
//     novelty_preference 进一步放大其占比（配额回补机制会吸收超配）
func (s *Service) mixEntries(rctx *core.RecommendContext) []recall.Entry {
	weights := warmMix
	if rctx.Signal.IsColdStart() {
		weights = coldMix
	}

	contentWeight := weights[recall.StrategyContent]
	collabWeight := weights[recall.StrategyCollaborative]
	if collabWeight > 0 && s.Behaviors == nil {
		contentWeight += collabWeight
		collabWeight = 0
	}

	freshWeight := weights[recall.StrategyFresh]
	filters := rctx.EffectiveFilters()
	if filters.FreshRatio > freshWeight {
		freshWeight = filters.FreshRatio
	}

	exploreWeight := filters.ExploreRatio
	if rctx.Signal != nil && rctx.Signal.NoveltyPreference > 0 {
		exploreWeight *= 1 + rctx.Signal.NoveltyPreference
	}

	// 固定顺序组装，保证同样输入产出同样的配额分布
	entries := make([]recall.Entry, 0, 6)
	add := func(src recall.Source, w float64) {
		if w > 0 {
			entries = append(entries, recall.Entry{Source: src, Weight: w})
		}
	}

	add(&recall.ContentBased{Repo: s.News}, contentWeight)
	add(&recall.Collaborative{Behaviors: s.Behaviors, Repo: s.News}, collabWeight)
	add(&recall.Hot{Repo: s.News, Store: s.Store}, weights[recall.StrategyHot])
	add(&recall.Featured{Repo: s.News}, weights[recall.StrategyFeatured])
	add(&recall.Fresh{Repo: s.News}, freshWeight)
	add(&recall.Discovery{Repo: s.News}, exploreWeight)

	return entries
}
