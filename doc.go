// Package newsrec 是一个个性化新闻推荐核心。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Rank → Filter → ReRank）
// - 多策略召回: 热门/精选/新鲜/内容/协同/探索并发 fan-out，按冷热配比混合
// - Fail-open: 画像、缓存、单个召回源的故障都降级，只有新闻仓库整体不可用才报错
//
// 编排入口见 recommend.Service；配置驱动的 Pipeline 构建见 config 与 config/builders。
package newsrec

import "github.com/rushteam/newsrec/pipeline"

// 轻量 facade：便于用户直接 import "newsrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
