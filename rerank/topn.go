package rerank

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// TopN 截断节点，在重排后截取前 N 个候选，控制进入分页的池子大小。
type TopN struct {
	// N <= 0 时不截断
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 || len(cands) <= n.N {
		return cands, nil
	}
	return cands[:n.N], nil
}

var _ pipeline.Node = (*TopN)(nil)
