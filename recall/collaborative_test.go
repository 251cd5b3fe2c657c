package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
)

// fakeBehaviors 是测试用的行为仓库：静态交互表。
type fakeBehaviors struct {
	userEngagements map[int64]map[int64]float64 // userID -> newsID -> weight
	newsEngagers    map[int64]map[int64]float64 // newsID -> userID -> weight
	err             error
}

func (f *fakeBehaviors) Record(context.Context, []*core.Behavior) error { return nil }

func (f *fakeBehaviors) UserEngagements(_ context.Context, userID int64, _ time.Duration) (map[int64]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userEngagements[userID], nil
}

func (f *fakeBehaviors) NewsEngagers(_ context.Context, newsID int64, _ time.Duration) (map[int64]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.newsEngagers[newsID], nil
}

// fakeNewsRepo 按 ID 提供静态新闻。
type fakeNewsRepo struct {
	items map[int64]*core.NewsItem
}

func (f *fakeNewsRepo) FindByIDs(_ context.Context, ids []int64) ([]*core.NewsItem, error) {
	out := make([]*core.NewsItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeNewsRepo) Query(context.Context, core.NewsQuery) ([]*core.NewsItem, error) {
	return nil, nil
}

func (f *fakeNewsRepo) Trending(context.Context, time.Duration, int) ([]*core.NewsItem, error) {
	return nil, nil
}

func (f *fakeNewsRepo) Latest(context.Context, int) ([]*core.NewsItem, error) {
	return nil, nil
}

func TestCollaborativeRecall(t *testing.T) {
	// 用户 1 读过新闻 10；用户 2 也读过 10，还读过 20 和 30。
	// 期望：向用户 1 推荐 20、30（按投票分排序），不推已读的 10。
	behaviors := &fakeBehaviors{
		userEngagements: map[int64]map[int64]float64{
			1: {10: 1.0},
			2: {10: 2.0, 20: 3.0, 30: 1.0},
		},
		newsEngagers: map[int64]map[int64]float64{
			10: {1: 1.0, 2: 2.0},
		},
	}
	repo := &fakeNewsRepo{items: map[int64]*core.NewsItem{
		10: {ID: 10}, 20: {ID: 20}, 30: {ID: 30},
	}}

	src := &Collaborative{Behaviors: behaviors, Repo: repo}
	out, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1}, 10)
	if err != nil {
		t.Fatal(err)
	}

	got := resultIDs(out)
	want := []int64{20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if out[0].Strategy != StrategyCollaborative {
		t.Errorf("strategy = %q, want %q", out[0].Strategy, StrategyCollaborative)
	}
}

func TestCollaborativeNoHistory(t *testing.T) {
	src := &Collaborative{
		Behaviors: &fakeBehaviors{},
		Repo:      &fakeNewsRepo{},
	}
	out, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 99}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty recall for user without history, got %d", len(out))
	}
}

func TestCollaborativeRepositoryError(t *testing.T) {
	src := &Collaborative{
		Behaviors: &fakeBehaviors{err: errors.New("store down")},
		Repo:      &fakeNewsRepo{},
	}
	_, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1}, 10)
	if err == nil {
		t.Fatal("expected error to propagate to fan-out for logging")
	}
}

func TestCollaborativeLimitApplied(t *testing.T) {
	behaviors := &fakeBehaviors{
		userEngagements: map[int64]map[int64]float64{
			1: {10: 1.0},
			2: {10: 2.0, 20: 3.0, 30: 2.0, 40: 1.0},
		},
		newsEngagers: map[int64]map[int64]float64{
			10: {1: 1.0, 2: 2.0},
		},
	}
	repo := &fakeNewsRepo{items: map[int64]*core.NewsItem{
		20: {ID: 20}, 30: {ID: 30}, 40: {ID: 40},
	}}

	src := &Collaborative{Behaviors: behaviors, Repo: repo}
	out, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	// 投票分最高的两条：20 (2×3) 和 30 (2×2)
	if out[0].News.ID != 20 || out[1].News.ID != 30 {
		t.Fatalf("got %v, want [20 30]", resultIDs(out))
	}
}
