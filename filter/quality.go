package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Quality 按画像的 quality_threshold 做硬过滤：低于阈值的候选直接剔除，
// 不参与重排。这是硬门槛而不是降权（产品约定：宁缺毋滥）。
//
// 画像缺失或阈值为 0 时不过滤。
type Quality struct{}

func (f *Quality) Name() string {
	return "filter.quality"
}

func (f *Quality) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.News == nil || rctx == nil || rctx.Signal == nil {
		return false, nil
	}

	threshold := rctx.Signal.QualityThreshold
	if threshold <= 0 {
		return false, nil
	}
	return c.News.QualityScore < threshold, nil
}
