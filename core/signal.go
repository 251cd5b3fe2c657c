package core

import "time"

// Warmth 是用户的冷热分类，驱动召回策略混合的选择。
type Warmth string

const (
	// WarmthCold 冷启动用户：行为数据不足，走热门/精选/最新混合
	WarmthCold Warmth = "cold_start"

	// WarmthWarm 画像充分的用户：走内容/协同/热门/最新混合
	WarmthWarm Warmth = "warm"
)

// UserSignal 是用户画像信号，由外部的 Profile Provider 提供，核心不持久化。
//
// 约定：
//   - 权重均非负，map 中缺失的条目视为权重 0
//   - Provider 不可用时，编排层按冷启动兜底，绝不因画像失败报错
type UserSignal struct {
	UserID int64

	// Warmth 冷热分类；空值视为冷启动
	Warmth Warmth

	// PreferredCategories 类目偏好，key: 类目 ID，value: 权重 ∈ [0,1]
	PreferredCategories map[int64]float64

	// PreferredTags 标签偏好，key: 标签，value: 权重 ∈ [0,1]
	PreferredTags map[string]float64

	// BlockedSources 用户屏蔽的新闻来源
	BlockedSources []string

	// DiversityPreference 多样性偏好 ∈ [0,1]，0 表示纯按分数排序
	DiversityPreference float64

	// NoveltyPreference 新颖性偏好 ∈ [0,1]，驱动探索类召回
	NoveltyPreference float64

	// QualityThreshold 质量下限 ∈ [0,1]，低于该值的候选被硬过滤
	QualityThreshold float64

	// Confidence 画像置信度 ∈ [0,1]，低于冷启动阈值时判为冷启动
	Confidence float64

	UpdateTime time.Time
}

// IsColdStart 判断是否按冷启动处理。nil 信号即冷启动。
func (s *UserSignal) IsColdStart() bool {
	if s == nil {
		return true
	}
	return s.Warmth != WarmthWarm
}

// CategoryWeight 获取类目偏好权重，缺失返回 0。
func (s *UserSignal) CategoryWeight(categoryID int64) float64 {
	if s == nil || s.PreferredCategories == nil {
		return 0
	}
	return s.PreferredCategories[categoryID]
}

// TagWeight 获取标签偏好权重，缺失返回 0。
func (s *UserSignal) TagWeight(tag string) float64 {
	if s == nil || s.PreferredTags == nil {
		return 0
	}
	return s.PreferredTags[tag]
}

// IsSourceBlocked 检查来源是否被用户屏蔽。
func (s *UserSignal) IsSourceBlocked(source string) bool {
	if s == nil {
		return false
	}
	for _, b := range s.BlockedSources {
		if b == source {
			return true
		}
	}
	return false
}

// TopCategories 返回按权重降序的前 n 个偏好类目 ID。
func (s *UserSignal) TopCategories(n int) []int64 {
	if s == nil || len(s.PreferredCategories) == 0 || n <= 0 {
		return nil
	}
	type pair struct {
		id int64
		w  float64
	}
	pairs := make([]pair, 0, len(s.PreferredCategories))
	for id, w := range s.PreferredCategories {
		pairs = append(pairs, pair{id: id, w: w})
	}
	// 权重相同时按 ID 升序，保证结果确定
	for i := 0; i < len(pairs); i++ {
		maxIdx := i
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].w > pairs[maxIdx].w ||
				(pairs[j].w == pairs[maxIdx].w && pairs[j].id < pairs[maxIdx].id) {
				maxIdx = j
			}
		}
		pairs[i], pairs[maxIdx] = pairs[maxIdx], pairs[i]
	}
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]int64, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.id)
	}
	return out
}
