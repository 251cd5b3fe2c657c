package recommend

import (
	"context"
	"time"

	"github.com/rushteam/newsrec/core"
)

// Feedback 是一条用户反馈。
type Feedback struct {
	UserID int64
	NewsID int64

	// RecommendationID 归因到产生该反馈的推荐会话，可为空
	RecommendationID string

	Type core.BehaviorType

	// Reason 负反馈原因（not_interested / seen_before 等），透传给行为事件上下文
	Reason string
}

// RecordFeedback 记录一条用户反馈。
// 负反馈（dislike / skip）会立刻失效该用户的缓存页，下一次请求重算。
func (s *Service) RecordFeedback(ctx context.Context, fb Feedback) error {
	if fb.UserID <= 0 || fb.NewsID <= 0 {
		return core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: user id and news id must be positive")
	}
	switch fb.Type {
	case core.BehaviorClick, core.BehaviorRead, core.BehaviorLike,
		core.BehaviorBookmark, core.BehaviorShare, core.BehaviorDislike, core.BehaviorSkip:
	default:
		return core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: unknown feedback type")
	}

	ev := &core.Behavior{
		UserID:           fb.UserID,
		NewsID:           fb.NewsID,
		Type:             fb.Type,
		RecommendationID: fb.RecommendationID,
		Timestamp:        time.Now(),
	}
	if fb.Reason != "" {
		ev.Context = map[string]any{"reason": fb.Reason}
	}

	if s.Collector != nil {
		s.Collector.Track(ev)
	} else if s.Behaviors != nil {
		if err := s.Behaviors.Record(ctx, []*core.Behavior{ev}); err != nil {
			return core.WrapDomainError(core.ModuleBehavior, core.ErrorCodeUnavailable,
				"recommend: feedback record failed", err)
		}
	}

	if (fb.Type == core.BehaviorDislike || fb.Type == core.BehaviorSkip) && s.Cache != nil {
		s.Cache.Invalidate(ctx, fb.UserID)
	}
	return nil
}
