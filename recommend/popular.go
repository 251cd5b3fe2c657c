package recommend

import (
	"context"
	"time"

	"github.com/rushteam/newsrec/core"
)

// Timeframe 是热门榜的时间范围。
type Timeframe string

const (
	TimeframeHour Timeframe = "hour"
	TimeframeDay  Timeframe = "day"
	TimeframeWeek Timeframe = "week"
)

func (t Timeframe) window() (time.Duration, bool) {
	switch t {
	case TimeframeHour:
		return time.Hour, true
	case TimeframeDay:
		return 24 * time.Hour, true
	case TimeframeWeek:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

// Popular 返回时间范围内的热门新闻，按热度降序。
// categoryID 为 0 表示不限类目。
func (s *Service) Popular(ctx context.Context, timeframe Timeframe, categoryID int64, limit int) ([]*core.NewsItem, error) {
	window, ok := timeframe.window()
	if !ok {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: timeframe must be hour, day or week")
	}
	if limit < 1 || limit > maxPageSize {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: limit must be in [1,100]")
	}

	items, err := s.News.Query(ctx, core.NewsQuery{
		CategoryID:     categoryID,
		PublishedAfter: time.Now().Add(-window),
		Sort:           core.SortByPopularity,
		Limit:          limit,
	})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecommend, core.ErrorCodeUnavailable,
			"recommend: popular query failed", err)
	}
	return items, nil
}
