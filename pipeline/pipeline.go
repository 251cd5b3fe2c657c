package pipeline

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Pipeline 是推荐链路的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 一次 Run 对应一次编排：召回 → 过滤 → 打分 → 重排。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	cands []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := cands
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
