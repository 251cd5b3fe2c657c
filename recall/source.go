package recall

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Source 表示一个可复用的召回源（热门/精选/最新/内容/协同/探索）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
//
// limit 是本次召回的候选上限；策略通常被要求多取（配额 × 2），
// 给下游过滤/重排留出余量。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Candidate, error)
}

// 策略名常量，同时用于 recall_source label 与响应里的 recall_strategy 字段。
const (
	StrategyHot           = "hot"
	StrategyFeatured      = "featured"
	StrategyFresh         = "fresh"
	StrategyContent       = "content"
	StrategyCollaborative = "collaborative"
	StrategyDiscovery     = "discovery"
)
