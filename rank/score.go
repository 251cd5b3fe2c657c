package rank

import (
	"context"
	"math"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// 新鲜度衰减曲线。
const (
	DecayLinear      = "linear"
	DecayExponential = "exponential"
)

// ScoreNode 是打分节点：对每个候选计算最终推荐分。
//
// 公式（所有信号先钳到 [0,1] 再加权，最终分下限 0）：
//
//	score = strategy_weight
//	      + popularity_score * 0.3
//	      + trending_score   * 0.3
//	      + quality_score    * 0.2
//	      + freshness_score  * 0.2
//	score *= 1.5 (is_breaking)
//	score *= 1.2 (is_featured)
//
// 突发/精选乘数作用于整个加和，而不是单项：突发新闻要能压过
// 其他信号直接冲到前排。
//
// freshness_score 是发布时长的单调减函数：0 时刻为 1.0，到 Horizon
// 衰减到 0。默认线性衰减、7 天窗口；可切换指数衰减
// （e^(-3·age/horizon)，到窗口末端约剩 0.05）。
type ScoreNode struct {
	// Horizon 新鲜度衰减窗口，默认 7 天
	Horizon time.Duration

	// Decay 衰减曲线：linear（默认）/ exponential
	Decay string
}

const (
	popularityWeight = 0.3
	trendingWeight   = 0.3
	qualityWeight    = 0.2
	freshnessWeight  = 0.2

	breakingBoost = 1.5
	featuredBoost = 1.2
)

func (n *ScoreNode) Name() string {
	return "rank.score"
}

func (n *ScoreNode) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *ScoreNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	now := rctx.Clock()
	for _, c := range cands {
		if c == nil || c.News == nil {
			continue
		}
		score := n.Score(c, now)
		if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
			// 钳制逻辑失效属于程序不变量被破坏，不允许静默污染响应
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInternalError,
				"rank: non-finite or negative score after clamping")
		}
		c.Score = score
	}
	return cands, nil
}

// Score 计算单个候选的推荐分（纯函数，便于独立测试）。
func (n *ScoreNode) Score(c *core.Candidate, now time.Time) float64 {
	news := c.News

	score := c.StrategyWeight
	score += clamp01(news.PopularityScore) * popularityWeight
	score += clamp01(news.TrendingScore) * trendingWeight
	score += clamp01(news.QualityScore) * qualityWeight
	score += n.Freshness(news.PublishedAt, now) * freshnessWeight

	if news.IsBreaking {
		score *= breakingBoost
	}
	if news.IsFeatured {
		score *= featuredBoost
	}

	if score < 0 {
		score = 0
	}
	return score
}

// Freshness 计算新鲜度分 ∈ [0,1]：发布时长 0 为 1.0，到 Horizon 衰减到 0。
func (n *ScoreNode) Freshness(publishedAt, now time.Time) float64 {
	horizon := n.Horizon
	if horizon <= 0 {
		horizon = 7 * 24 * time.Hour
	}

	age := now.Sub(publishedAt)
	if age <= 0 {
		return 1.0
	}
	if age >= horizon {
		return 0
	}

	frac := float64(age) / float64(horizon)
	switch n.Decay {
	case DecayExponential:
		return math.Exp(-3 * frac)
	default:
		return 1 - frac
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
