package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/store"
)

// queryRepo 记录 Query 调用并返回固定结果。
type queryRepo struct {
	fakeNewsRepo
	queried []core.NewsQuery
	result  []*core.NewsItem
}

func (r *queryRepo) Query(_ context.Context, q core.NewsQuery) ([]*core.NewsItem, error) {
	r.queried = append(r.queried, q)
	return r.result, nil
}

func TestHotPrecomputedLeaderboard(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	ctx := context.Background()
	_ = kv.ZAdd(ctx, "hot:news:0", 0.9, "1")
	_ = kv.ZAdd(ctx, "hot:news:0", 0.8, "2")
	_ = kv.ZAdd(ctx, "hot:news:0", 0.95, "3")

	repo := &queryRepo{fakeNewsRepo: fakeNewsRepo{items: map[int64]*core.NewsItem{
		1: {ID: 1}, 2: {ID: 2}, 3: {ID: 3},
	}}}

	src := &Hot{Repo: repo, Store: kv}
	out, err := src.Recall(ctx, &core.RecommendContext{UserID: 1}, 3)
	if err != nil {
		t.Fatal(err)
	}

	got := resultIDs(out)
	want := []int64{3, 1, 2} // 榜单按分数降序
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(repo.queried) != 0 {
		t.Error("leaderboard hit must not fall through to repository")
	}
}

func TestHotFallbackCachesIDs(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	now := time.Now()
	repo := &queryRepo{result: []*core.NewsItem{
		{ID: 5, TrendingScore: 0.9, PublishedAt: now},
		{ID: 6, TrendingScore: 0.8, PublishedAt: now},
	}}
	repo.items = map[int64]*core.NewsItem{5: {ID: 5}, 6: {ID: 6}}

	src := &Hot{Repo: repo, Store: kv}
	rctx := &core.RecommendContext{UserID: 1, Now: now}

	out, err := src.Recall(context.Background(), rctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	if len(repo.queried) != 1 {
		t.Fatalf("expected one repository query, got %d", len(repo.queried))
	}
	if repo.queried[0].Sort != core.SortByTrending {
		t.Errorf("sort = %q, want trending", repo.queried[0].Sort)
	}

	// 第二次走 ID 缓存，不再回源
	out, err = src.Recall(context.Background(), rctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates from id cache, got %d", len(out))
	}
	if len(repo.queried) != 1 {
		t.Fatalf("second recall should hit the id cache, queries = %d", len(repo.queried))
	}
}
