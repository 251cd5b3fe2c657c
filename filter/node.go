package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// Node 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被剔除。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string {
	return "filter.node"
}

func (n *Node) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(cands) == 0 {
		return cands, nil
	}

	out := make([]*core.Candidate, 0, len(cands))

	for _, c := range cands {
		if c == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, c)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			// 记录过滤原因（可选，用于调试/观测）
			c.PutLabel("filtered", core.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, c)
	}

	return out, nil
}
