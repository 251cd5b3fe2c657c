package core

import (
	"fmt"
	"strconv"
)

// Filters 是一次推荐请求的过滤条件。
// 参与缓存 key 的指纹计算：不同过滤条件的请求互不污染。
type Filters struct {
	// CategoryID 限定类目；0 表示不限
	CategoryID int64 `json:"category_id,omitempty"`

	// IncludeBreaking / IncludeFeatured 是否允许突发/精选内容
	IncludeBreaking bool `json:"include_breaking"`
	IncludeFeatured bool `json:"include_featured"`

	// Diversify 是否启用多样性重排
	Diversify bool `json:"diversify"`

	// ExploreRatio 探索内容占比 ∈ [0,1]，驱动 discovery 召回
	ExploreRatio float64 `json:"explore_ratio"`

	// FreshRatio 新鲜内容占比 ∈ [0,1]
	FreshRatio float64 `json:"fresh_ratio"`
}

// DefaultFilters 返回与前端默认请求一致的过滤条件。
func DefaultFilters() *Filters {
	return &Filters{
		IncludeBreaking: true,
		IncludeFeatured: true,
		Diversify:       true,
		ExploreRatio:    0.1,
		FreshRatio:      0.2,
	}
}

// Fingerprint 返回过滤条件的稳定指纹，用于缓存 key。
// 同样的过滤条件必须产生同样的指纹。
func (f *Filters) Fingerprint() string {
	if f == nil {
		return "default"
	}
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return fmt.Sprintf("c%s:b%d:f%d:d%d:e%s:r%s",
		strconv.FormatInt(f.CategoryID, 10),
		b2i(f.IncludeBreaking),
		b2i(f.IncludeFeatured),
		b2i(f.Diversify),
		strconv.FormatFloat(f.ExploreRatio, 'f', 2, 64),
		strconv.FormatFloat(f.FreshRatio, 'f', 2, 64),
	)
}
