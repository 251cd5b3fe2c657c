package builders

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rushteam/newsrec/config"
	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// fakeNews 覆盖配置驱动链路里用到的查询形态。
type fakeNews struct {
	items []*core.NewsItem
}

func (f *fakeNews) FindByIDs(_ context.Context, ids []int64) ([]*core.NewsItem, error) {
	out := make([]*core.NewsItem, 0, len(ids))
	for _, id := range ids {
		for _, it := range f.items {
			if it.ID == id {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeNews) Query(_ context.Context, q core.NewsQuery) ([]*core.NewsItem, error) {
	out := make([]*core.NewsItem, 0, len(f.items))
	for _, it := range f.items {
		if q.CategoryID != 0 && it.CategoryID != q.CategoryID {
			continue
		}
		if !q.PublishedAfter.IsZero() && it.PublishedAt.Before(q.PublishedAfter) {
			continue
		}
		if q.MinQuality > 0 && it.QualityScore < q.MinQuality {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Sort == core.SortByTrending {
			return out[i].TrendingScore > out[j].TrendingScore
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeNews) Trending(_ context.Context, _ time.Duration, limit int) ([]*core.NewsItem, error) {
	return f.Query(context.Background(), core.NewsQuery{Sort: core.SortByTrending, Limit: limit})
}

func (f *fakeNews) Latest(_ context.Context, limit int) ([]*core.NewsItem, error) {
	return f.Query(context.Background(), core.NewsQuery{Sort: core.SortByPublishedAt, Limit: limit})
}

var _ core.NewsRepository = (*fakeNews)(nil)

const pipelineYAML = `
pipeline:
  name: cold_start
  nodes:
    - type: recall.fanout
      config:
        target: 10
        sources:
          - { strategy: hot, weight: 0.6 }
          - { strategy: fresh, weight: 0.4 }
    - type: rank.score
      config:
        horizon_days: 7
    - type: filter
      config:
        filters:
          - { type: quality }
          - { type: rule, expr: "news.quality_score < 0.2" }
    - type: rerank.mmr
      config:
        category_penalty: 0.2
    - type: rerank.topn
      config:
        n: 3
`

func TestBuildPipelineFromYAML(t *testing.T) {
	now := time.Now()
	repo := &fakeNews{items: []*core.NewsItem{
		{ID: 1, Source: "alpha", CategoryID: 1, QualityScore: 0.8, TrendingScore: 0.9,
			PublishedAt: now.Add(-time.Hour)},
		{ID: 2, Source: "beta", CategoryID: 2, QualityScore: 0.7, TrendingScore: 0.5,
			PublishedAt: now.Add(-2 * time.Hour)},
		{ID: 3, Source: "gamma", CategoryID: 3, QualityScore: 0.1, TrendingScore: 0.2,
			PublishedAt: now.Add(-30 * time.Minute)},
		{ID: 4, Source: "alpha", CategoryID: 1, QualityScore: 0.6,
			PublishedAt: now.Add(-10 * time.Minute)},
	}}
	Inject(Deps{News: repo})

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "cold_start" || len(cfg.Pipeline.Nodes) != 5 {
		t.Fatalf("loaded config: name=%q nodes=%d", cfg.Pipeline.Name, len(cfg.Pipeline.Nodes))
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatal(err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 5 {
		t.Fatalf("built %d nodes, want 5", len(p.Nodes))
	}

	rctx := &core.RecommendContext{UserID: 1, Filters: core.DefaultFilters(), Now: now}
	out, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 3 {
		t.Fatalf("got %d candidates, want 3 (low quality dropped, topn 3)", len(out))
	}
	for i, c := range out {
		if c.News.ID == 3 {
			t.Error("rule filter must drop the low-quality item")
		}
		if i > 0 && out[i-1].Score < c.Score {
			t.Errorf("scores not descending at %d", i)
		}
	}
}

func TestValidatePipelineConfigUnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.neural"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("expected error for unregistered node type")
	}
}

func TestBuilderConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"fanout without sources", func() error {
			_, err := BuildFanoutNode(map[string]interface{}{"target": 10})
			return err
		}},
		{"fanout unknown strategy", func() error {
			_, err := BuildFanoutNode(map[string]interface{}{
				"sources": []interface{}{
					map[string]interface{}{"strategy": "oracle", "weight": 1.0},
				},
			})
			return err
		}},
		{"topn without n", func() error {
			_, err := BuildTopNNode(map[string]interface{}{})
			return err
		}},
		{"rule filter without expr", func() error {
			_, err := BuildFilterNode(map[string]interface{}{
				"filters": []interface{}{
					map[string]interface{}{"type": "rule"},
				},
			})
			return err
		}},
		{"unknown filter type", func() error {
			_, err := BuildFilterNode(map[string]interface{}{
				"filters": []interface{}{
					map[string]interface{}{"type": "sentiment"},
				},
			})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.run() == nil {
				t.Error("expected a config error")
			}
		})
	}
}
