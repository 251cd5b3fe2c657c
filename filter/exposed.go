package filter

import (
	"context"
	"strconv"

	"github.com/rushteam/newsrec/core"
)

// Exposed 是已读过滤器，剔除用户近期已经读过的新闻。
// 已读集合从 KV 存储读取：key 为 {KeyPrefix}:{userID} 的 Hash，
// field 为新闻 ID（由行为追踪管道写入）。
//
// 存储不可用时放行（宁可重复，不能开天窗）。
type Exposed struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 "user:read"
	KeyPrefix string
}

func (f *Exposed) Name() string {
	return "filter.exposed"
}

func (f *Exposed) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.News == nil || rctx == nil || rctx.UserID == 0 || f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:read"
	}
	key := keyPrefix + ":" + strconv.FormatInt(rctx.UserID, 10)

	_, err := f.Store.HGet(ctx, key, strconv.FormatInt(c.News.ID, 10))
	if err != nil {
		// NOT_FOUND 或存储故障都放行
		return false, nil
	}
	return true, nil
}
