package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/newsrec/core"
)

// fakeSource 是测试用的静态召回源。
type fakeSource struct {
	name  string
	cands []*core.Candidate
	err   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Recall(_ context.Context, _ *core.RecommendContext, limit int) ([]*core.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.cands) > limit {
		return s.cands[:limit], nil
	}
	return s.cands, nil
}

func newsCands(strategy string, ids ...int64) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewCandidate(&core.NewsItem{ID: id}, strategy, 0))
	}
	return out
}

func resultIDs(cands []*core.Candidate) []int64 {
	out := make([]int64, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.News.ID)
	}
	return out
}

func TestFanoutMergeQuotasAndDedup(t *testing.T) {
	// hot 权重 0.6、fresh 权重 0.4，目标 5：配额 3/2。
	// fresh 的 2 与 hot 重合，去重后由回补轮凑满。
	node := &Fanout{
		Entries: []Entry{
			{Source: &fakeSource{name: "hot", cands: newsCands(StrategyHot, 1, 2, 3, 4, 5)}, Weight: 0.6},
			{Source: &fakeSource{name: "fresh", cands: newsCands(StrategyFresh, 1, 2, 6, 7)}, Weight: 0.4},
		},
		Target: 5,
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := resultIDs(out)
	want := []int64{1, 2, 3, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	// 策略权重写回候选
	for _, c := range out[:3] {
		if c.StrategyWeight != 0.6 {
			t.Errorf("hot candidate weight = %v, want 0.6", c.StrategyWeight)
		}
	}
}

func TestFanoutFailOpen(t *testing.T) {
	node := &Fanout{
		Entries: []Entry{
			{Source: &fakeSource{name: "hot", err: errors.New("backend down")}, Weight: 0.6},
			{Source: &fakeSource{name: "fresh", cands: newsCands(StrategyFresh, 10, 11)}, Weight: 0.4},
		},
		Target: 5,
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("source failure must not surface: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected surviving source's candidates, got %d", len(out))
	}
}

func TestFanoutAllSourcesEmpty(t *testing.T) {
	node := &Fanout{
		Entries: []Entry{
			{Source: &fakeSource{name: "hot"}, Weight: 0.6},
			{Source: &fakeSource{name: "fresh", err: errors.New("down")}, Weight: 0.4},
		},
		Target: 5,
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}

func TestFanoutBackfillByWeight(t *testing.T) {
	// content 权重最高但只有 1 条、fresh 为空；缺口按权重降序从 hot 回补
	node := &Fanout{
		Entries: []Entry{
			{Source: &fakeSource{name: "fresh"}, Weight: 0.1},
			{Source: &fakeSource{name: "content", cands: newsCands(StrategyContent, 10)}, Weight: 0.6},
			{Source: &fakeSource{name: "hot", cands: newsCands(StrategyHot, 20, 21, 22, 23)}, Weight: 0.3},
		},
		Target: 4,
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := resultIDs(out)
	// 配额：content 3 (只有1)、hot 2、fresh 1 → 10, 20, 21, 回补 22
	want := []int64{10, 20, 21, 22}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFanoutNoEntries(t *testing.T) {
	node := &Fanout{Target: 10}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil || out != nil {
		t.Fatalf("expected nil, nil; got %v, %v", out, err)
	}
}
