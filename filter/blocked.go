package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// BlockedSource 剔除用户屏蔽的新闻来源（画像里的 blocked_sources）。
type BlockedSource struct{}

func (f *BlockedSource) Name() string {
	return "filter.blocked_source"
}

func (f *BlockedSource) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.News == nil || rctx == nil {
		return false, nil
	}
	return rctx.Signal.IsSourceBlocked(c.News.Source), nil
}
