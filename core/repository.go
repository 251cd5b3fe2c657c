package core

import (
	"context"
	"time"
)

// NewsSort 是 NewsRepository 查询的排序方式。
type NewsSort string

const (
	SortByPublishedAt NewsSort = "published_at"
	SortByPopularity  NewsSort = "popularity"
	SortByTrending    NewsSort = "trending"
	SortByQuality     NewsSort = "quality"
)

// NewsQuery 是 NewsRepository 的查询条件。零值字段表示不过滤。
type NewsQuery struct {
	CategoryID  int64
	CategoryIDs []int64

	// IsFeatured / IsBreaking 三态过滤：nil 不过滤
	IsFeatured *bool
	IsBreaking *bool

	// PublishedAfter / PublishedBefore 发布时间窗口
	PublishedAfter  time.Time
	PublishedBefore time.Time

	// MinQuality 质量分下限
	MinQuality float64

	Sort   NewsSort
	Limit  int
	Offset int
}

// NewsRepository 是新闻存储的领域接口，由外部持久层实现（数据库/搜索引擎等）。
// 推荐核心只读。
type NewsRepository interface {
	// FindByIDs 按 ID 批量取新闻，结果顺序与 ids 一致，缺失的 ID 跳过
	FindByIDs(ctx context.Context, ids []int64) ([]*NewsItem, error)

	// Query 按条件查询
	Query(ctx context.Context, q NewsQuery) ([]*NewsItem, error)

	// Trending 按 trending_score 降序取时间窗口内的新闻
	Trending(ctx context.Context, window time.Duration, limit int) ([]*NewsItem, error)

	// Latest 按发布时间降序取最新新闻
	Latest(ctx context.Context, limit int) ([]*NewsItem, error)
}

// BehaviorType 是用户行为类型。
type BehaviorType string

const (
	BehaviorImpression BehaviorType = "impression" // 曝光
	BehaviorClick      BehaviorType = "click"      // 点击
	BehaviorRead       BehaviorType = "read"       // 阅读
	BehaviorLike       BehaviorType = "like"       // 点赞
	BehaviorBookmark   BehaviorType = "bookmark"   // 收藏
	BehaviorShare      BehaviorType = "share"      // 分享
	BehaviorDislike    BehaviorType = "dislike"    // 不喜欢
	BehaviorSkip       BehaviorType = "skip"       // 跳过
)

// EngagementWeight 返回行为类型的互动权重，协同召回用它累积用户-新闻交互分。
// 负向行为权重为 0：不进入交互表。
func (t BehaviorType) EngagementWeight() float64 {
	switch t {
	case BehaviorRead:
		return 1.0
	case BehaviorLike:
		return 2.0
	case BehaviorBookmark:
		return 3.0
	case BehaviorShare:
		return 3.0
	case BehaviorClick:
		return 0.5
	default:
		return 0
	}
}

// Behavior 是一条用户行为事件。
type Behavior struct {
	UserID int64        `json:"user_id"`
	NewsID int64        `json:"news_id"`
	Type   BehaviorType `json:"behavior_type"`

	// RecommendationID 归因到产生该行为的推荐会话，可为空
	RecommendationID string `json:"recommendation_id,omitempty"`

	// Position 新闻在投放列表中的位置（曝光/点击时有意义）
	Position int `json:"position,omitempty"`

	Timestamp time.Time      `json:"timestamp"`
	Context   map[string]any `json:"context,omitempty"`
}

// BehaviorRepository 是行为存储的领域接口。
// Record 供行为追踪管道写入；读取侧供协同召回消费。
type BehaviorRepository interface {
	// Record 追加一批行为事件
	Record(ctx context.Context, events []*Behavior) error

	// UserEngagements 返回用户在时间窗口内的正向互动，map[newsID]累积权重
	UserEngagements(ctx context.Context, userID int64, window time.Duration) (map[int64]float64, error)

	// NewsEngagers 返回与新闻发生正向互动的用户，map[userID]累积权重
	NewsEngagers(ctx context.Context, newsID int64, window time.Duration) (map[int64]float64, error)
}

// SignalProvider 是用户画像信号的领域接口，由外部 Profile Provider 实现。
// 返回 (nil, nil) 表示该用户没有画像（冷启动）。
type SignalProvider interface {
	GetSignal(ctx context.Context, userID int64) (*UserSignal, error)
}
