package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Flags 按请求过滤条件剔除突发/精选内容。
// include_breaking / include_featured 默认 true；显式关掉才过滤。
type Flags struct{}

func (f *Flags) Name() string {
	return "filter.flags"
}

func (f *Flags) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.News == nil {
		return false, nil
	}

	filters := rctx.EffectiveFilters()
	if !filters.IncludeBreaking && c.News.IsBreaking {
		return true, nil
	}
	if !filters.IncludeFeatured && c.News.IsFeatured {
		return true, nil
	}
	return false, nil
}
