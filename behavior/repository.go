// Package behavior 实现行为追踪：收集器异步缓冲行为事件，批量落到行为存储，
// 协同召回和已读过滤从存储侧消费。
package behavior

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rushteam/newsrec/core"
)

// Hash key 前缀
const (
	keyUserEngagement = "behavior:user" // {prefix}:{userID} -> field: newsID
	keyNewsEngagement = "behavior:news" // {prefix}:{newsID} -> field: userID
	keyUserRead       = "user:read"     // {prefix}:{userID} -> field: newsID（已读过滤用）
)

// engagement 是交互表里的一个条目。
type engagement struct {
	Weight    float64 `json:"w"`
	Timestamp int64   `json:"ts"`
}

// StoreRepository 是基于 KV 存储的行为仓库实现。
//
// 交互数据写两个方向的 Hash：
//   - behavior:user:{userID}  field=newsID  用户读过什么（协同召回第一跳）
//   - behavior:news:{newsID}  field=userID  新闻被谁读过（协同召回第二跳）
//
// 正向行为按 EngagementWeight 累积权重；负向行为（dislike/skip）权重为 0，
// 不进交互表，但阅读类行为会写进已读表供曝光过滤。
type StoreRepository struct {
	Store core.KeyValueStore
}

var _ core.BehaviorRepository = (*StoreRepository)(nil)

func NewStoreRepository(store core.KeyValueStore) *StoreRepository {
	return &StoreRepository{Store: store}
}

// Record 追加一批行为事件。
func (r *StoreRepository) Record(ctx context.Context, events []*core.Behavior) error {
	if r.Store == nil {
		return core.ErrStoreNotSupported
	}

	for _, ev := range events {
		if ev == nil || ev.UserID == 0 || ev.NewsID == 0 {
			continue
		}

		userField := strconv.FormatInt(ev.UserID, 10)
		newsField := strconv.FormatInt(ev.NewsID, 10)

		if ev.Type == core.BehaviorRead || ev.Type == core.BehaviorClick {
			readKey := keyUserRead + ":" + userField
			if err := r.Store.HSet(ctx, readKey, newsField, []byte("1")); err != nil {
				return err
			}
		}

		w := ev.Type.EngagementWeight()
		if w <= 0 {
			continue
		}

		ts := ev.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}

		userKey := keyUserEngagement + ":" + userField
		if err := r.accumulate(ctx, userKey, newsField, w, ts); err != nil {
			return err
		}
		newsKey := keyNewsEngagement + ":" + newsField
		if err := r.accumulate(ctx, newsKey, userField, w, ts); err != nil {
			return err
		}
	}
	return nil
}

// accumulate 读改写一个交互条目。并发下可能丢失少量累积，
// 交互表是近似统计，可以接受。
func (r *StoreRepository) accumulate(ctx context.Context, key, field string, w float64, ts time.Time) error {
	var e engagement
	if raw, err := r.Store.HGet(ctx, key, field); err == nil {
		_ = json.Unmarshal(raw, &e)
	}
	e.Weight += w
	e.Timestamp = ts.Unix()

	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Store.HSet(ctx, key, field, raw)
}

// UserEngagements 返回用户在时间窗口内的正向互动。
func (r *StoreRepository) UserEngagements(ctx context.Context, userID int64, window time.Duration) (map[int64]float64, error) {
	key := keyUserEngagement + ":" + strconv.FormatInt(userID, 10)
	return r.readEngagements(ctx, key, window)
}

// NewsEngagers 返回时间窗口内与新闻互动过的用户。
func (r *StoreRepository) NewsEngagers(ctx context.Context, newsID int64, window time.Duration) (map[int64]float64, error) {
	key := keyNewsEngagement + ":" + strconv.FormatInt(newsID, 10)
	return r.readEngagements(ctx, key, window)
}

func (r *StoreRepository) readEngagements(ctx context.Context, key string, window time.Duration) (map[int64]float64, error) {
	if r.Store == nil {
		return nil, core.ErrStoreNotSupported
	}

	fields, err := r.Store.HGetAll(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[int64]float64{}, nil
		}
		return nil, err
	}

	cutoff := int64(0)
	if window > 0 {
		cutoff = time.Now().Add(-window).Unix()
	}

	out := make(map[int64]float64, len(fields))
	for field, raw := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		var e engagement
		if json.Unmarshal(raw, &e) != nil {
			continue
		}
		if e.Timestamp < cutoff || e.Weight <= 0 {
			continue
		}
		out[id] = e.Weight
	}
	return out, nil
}
