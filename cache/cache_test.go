package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/store"
)

func samplePage(id string) *core.RecommendationPage {
	return &core.RecommendationPage{
		Items: []*core.RankedNews{
			{NewsItem: &core.NewsItem{ID: 1, Title: "a"}, Position: 0, Score: 0.9, Strategy: "hot"},
			{NewsItem: &core.NewsItem{ID: 2, Title: "b"}, Position: 1, Score: 0.8, Strategy: "fresh"},
		},
		Total:            10,
		Page:             1,
		PageSize:         2,
		RecommendationID: id,
		AlgorithmVersion: "v1.0.0",
		GeneratedAt:      time.Now().Truncate(time.Second),
		HasNext:          true,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	c := New(kv)

	ctx := context.Background()
	filters := core.DefaultFilters()

	if _, ok := c.Get(ctx, 1, filters, 1); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(ctx, 1, filters, 1, samplePage("rec-123"))

	got, ok := c.Get(ctx, 1, filters, 1)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if !got.CacheHit {
		t.Error("cached page must be marked as cache hit")
	}
	if got.RecommendationID != "rec-123" {
		t.Errorf("recommendation id = %q, want rec-123 (cached pages keep the original id)", got.RecommendationID)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].ID != 1 || got.Items[1].Strategy != "fresh" {
		t.Error("item payload corrupted through the cache")
	}
}

func TestCacheKeySeparation(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	c := New(kv)

	ctx := context.Background()
	defaults := core.DefaultFilters()
	sports := &core.Filters{CategoryID: 3, IncludeBreaking: true, IncludeFeatured: true}

	c.Set(ctx, 1, defaults, 1, samplePage("all"))
	c.Set(ctx, 1, sports, 1, samplePage("sports"))
	c.Set(ctx, 1, defaults, 2, samplePage("page2"))

	if got, _ := c.Get(ctx, 1, defaults, 1); got.RecommendationID != "all" {
		t.Errorf("default page 1 = %q", got.RecommendationID)
	}
	if got, _ := c.Get(ctx, 1, sports, 1); got.RecommendationID != "sports" {
		t.Errorf("sports page 1 = %q", got.RecommendationID)
	}
	if got, _ := c.Get(ctx, 1, defaults, 2); got.RecommendationID != "page2" {
		t.Errorf("default page 2 = %q", got.RecommendationID)
	}
	if _, ok := c.Get(ctx, 2, defaults, 1); ok {
		t.Error("another user's cache must not be visible")
	}
}

func TestCacheInvalidate(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	c := New(kv)

	ctx := context.Background()
	filters := core.DefaultFilters()

	c.Set(ctx, 1, filters, 1, samplePage("a"))
	c.Set(ctx, 1, filters, 2, samplePage("b"))
	c.Set(ctx, 2, filters, 1, samplePage("other"))

	n := c.Invalidate(ctx, 1)
	if n != 2 {
		t.Errorf("invalidated %d entries, want 2", n)
	}
	if _, ok := c.Get(ctx, 1, filters, 1); ok {
		t.Error("user 1 page 1 should be gone")
	}
	if _, ok := c.Get(ctx, 2, filters, 1); !ok {
		t.Error("user 2's cache must survive")
	}
}

func TestCacheCorruptedEntry(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	c := New(kv)

	ctx := context.Background()
	filters := core.DefaultFilters()
	_ = kv.Set(ctx, c.Key(1, filters, 1), []byte("{not json"))

	if _, ok := c.Get(ctx, 1, filters, 1); ok {
		t.Fatal("corrupted entry must degrade to miss")
	}
}

func TestCacheNilStore(t *testing.T) {
	c := &RecommendationCache{}
	ctx := context.Background()
	filters := core.DefaultFilters()

	// 缓存未接入时所有操作都静默降级
	c.Set(ctx, 1, filters, 1, samplePage("x"))
	if _, ok := c.Get(ctx, 1, filters, 1); ok {
		t.Fatal("nil store must always miss")
	}
}
