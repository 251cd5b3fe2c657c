package core

import "time"

// RankedNews 是推荐结果中的单条新闻：新闻字段 + 推荐元信息。
// JSON 结构与前端消费的 items[] 保持一致。
type RankedNews struct {
	*NewsItem

	// Position 页内位置，0 基，稠密递增
	Position int `json:"position"`

	// Score 最终推荐分
	Score float64 `json:"recommendation_score"`

	// Reason 可选的推荐理由
	Reason string `json:"recommendation_reason,omitempty"`

	// Strategy 产生该条目的召回策略
	Strategy string `json:"recall_strategy,omitempty"`
}

// RecommendationPage 是一次编排产出的单页推荐结果（响应实体）。
// 每次编排生成一次，写入缓存，TTL 到期或显式刷新时失效。
type RecommendationPage struct {
	Items []*RankedNews `json:"items"`

	// Total 是本次编排候选池的总量（分页前）
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// RecommendationID 推荐会话 ID：每次编排生成一次，缓存命中时沿用原值，
	// 保证下游点击/反馈能正确归因到同一次投放
	RecommendationID string `json:"recommendation_id"`

	// AlgorithmVersion 标识打分逻辑版本
	AlgorithmVersion string `json:"algorithm_version"`

	GeneratedAt time.Time `json:"timestamp"`
	HasNext     bool      `json:"has_next"`

	// CacheHit 标记本页来自缓存还是实时计算
	CacheHit bool `json:"cache_hit"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// EmptyPage 构造一个合法的空页：所有策略都无候选不是错误。
func EmptyPage(page, pageSize int, recommendationID, version string, now time.Time) *RecommendationPage {
	return &RecommendationPage{
		Items:            []*RankedNews{},
		Total:            0,
		Page:             page,
		PageSize:         pageSize,
		RecommendationID: recommendationID,
		AlgorithmVersion: version,
		GeneratedAt:      now,
		HasNext:          false,
	}
}
