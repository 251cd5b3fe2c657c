package core

import "time"

// NewsItem 是新闻物料的只读快照，由外部的 News Repository 拥有。
// 推荐核心只读取，不修改、不落库。
//
// JSON 字段名与前端消费的响应保持一致，不可随意改动。
type NewsItem struct {
	ID         int64  `json:"news_id"`
	Title      string `json:"title"`
	TitleZH    string `json:"title_zh,omitempty"`
	Summary    string `json:"summary,omitempty"`
	SummaryZH  string `json:"summary_zh,omitempty"`
	Source     string `json:"source"`
	Author     string `json:"author,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Language   string `json:"language,omitempty"`

	CategoryID   int64    `json:"category_id"`
	CategoryName string   `json:"category_name,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	// 阅读时长估计（分钟）
	ReadingTime int `json:"reading_time"`

	// 质量与情感信号，离线算好：QualityScore ∈ [0,1]，SentimentScore ∈ [-1,1]
	QualityScore   float64 `json:"quality_score"`
	SentimentScore float64 `json:"sentiment_score"`

	// 行为统计
	ViewCount  int64 `json:"view_count"`
	LikeCount  int64 `json:"like_count"`
	ShareCount int64 `json:"share_count"`

	// 热度信号，离线/近线更新
	PopularityScore float64 `json:"popularity_score"`
	TrendingScore   float64 `json:"trending_score"`

	IsBreaking bool `json:"is_breaking"`
	IsFeatured bool `json:"is_featured"`

	PublishedAt time.Time `json:"published_at"`
}

// Age 返回新闻的发布时长。now 为零值时使用当前时间。
func (n *NewsItem) Age(now time.Time) time.Duration {
	if now.IsZero() {
		now = time.Now()
	}
	return now.Sub(n.PublishedAt)
}

// HasTag 检查新闻是否携带某个标签。
func (n *NewsItem) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
