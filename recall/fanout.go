package recall

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// Entry 是参与一次混合的召回源：策略 + 配比权重。
// Weight 是目标页大小的混合比例，不是硬分区；配额算法见 Fanout.merge。
type Entry struct {
	Source Source
	Weight float64
}

// Fanout 是一个 Recall Node：并发执行多个召回源，并按权重配额合并结果。
//
// 行为约定：
//   - 每个召回源带独立超时；超时或出错只记日志并当作空结果，绝不中断其他源
//   - 合并时按新闻 ID 去重，权重高的策略优先保留
//   - 某个源候选不足时，缺口按权重降序从仍有余量的源回补
//   - 所有源都为空时返回空集合（不是错误）
type Fanout struct {
	Entries []Entry

	// Target 合并后的候选池目标大小；每个源的抓取上限为 配额 × OverFetch
	Target int

	// OverFetch 超抓倍数，默认 2（给下游过滤/重排留余量）
	OverFetch int

	// Timeout 每个召回源的超时时间，默认 3s
	Timeout time.Duration

	// MaxConcurrent 最大并发数（0 表示无限制）
	MaxConcurrent int

	// Logger 用于记录被吞掉的召回源失败；零值静默
	Logger zerolog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Entries) == 0 || n.Target <= 0 {
		return nil, nil
	}

	overFetch := n.OverFetch
	if overFetch <= 0 {
		overFetch = 2
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	quotas := n.quotas()

	// 并发执行；results 按 entry 下标收集，合并顺序与并发完成顺序无关
	results := make([][]*core.Candidate, len(n.Entries))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, entry := range n.Entries {
		if entry.Source == nil || quotas[i] <= 0 {
			continue
		}
		idx, e, quota := i, entry, quotas[i]

		eg.Go(func() error {
			recallCtx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()

			cands, err := e.Source.Recall(recallCtx, rctx, quota*overFetch)
			if err != nil {
				// fail-open：单个召回源失败不拖垮整条链路
				n.Logger.Warn().
					Err(err).
					Str("source", e.Source.Name()).
					Int64("user_id", rctx.UserID).
					Msg("recall source failed, treating as empty")
				return nil
			}

			for _, c := range cands {
				if c == nil {
					continue
				}
				c.StrategyWeight = e.Weight
				c.PutLabel("strategy_weight", core.Label{
					Value:  strconv.FormatFloat(e.Weight, 'f', 2, 64),
					Source: "recall",
				})
			}
			results[idx] = cands
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return n.merge(results, quotas), nil
}

// quotas 计算每个源的配额：ceil(weight × Target)。
func (n *Fanout) quotas() []int {
	quotas := make([]int, len(n.Entries))
	for i, e := range n.Entries {
		if e.Weight <= 0 {
			continue
		}
		q := int(e.Weight * float64(n.Target))
		if float64(q) < e.Weight*float64(n.Target) {
			q++
		}
		quotas[i] = q
	}
	return quotas
}

// merge 按权重降序合并：先各取配额内的去重候选，缺口再按权重降序
// 从仍有剩余的源回补，直到凑满 Target 或所有源耗尽。
func (n *Fanout) merge(results [][]*core.Candidate, quotas []int) []*core.Candidate {
	order := make([]int, 0, len(n.Entries))
	for i := range n.Entries {
		order = append(order, i)
	}
	// 权重降序；同权重按下标，保证确定性
	for i := 0; i < len(order); i++ {
		maxIdx := i
		for j := i + 1; j < len(order); j++ {
			if n.Entries[order[j]].Weight > n.Entries[order[maxIdx]].Weight {
				maxIdx = j
			}
		}
		order[i], order[maxIdx] = order[maxIdx], order[i]
	}

	seen := make(map[int64]bool, n.Target)
	out := make([]*core.Candidate, 0, n.Target)
	cursors := make([]int, len(results))

	take := func(idx, upTo int) {
		for cursors[idx] < len(results[idx]) && len(out) < n.Target && upTo > 0 {
			c := results[idx][cursors[idx]]
			cursors[idx]++
			if c == nil || c.News == nil || seen[c.News.ID] {
				continue
			}
			seen[c.News.ID] = true
			out = append(out, c)
			upTo--
		}
	}

	// 第一轮：各源取配额内的量
	for _, idx := range order {
		take(idx, quotas[idx])
	}
	// 第二轮：权重降序回补缺口
	for _, idx := range order {
		if len(out) >= n.Target {
			break
		}
		take(idx, n.Target-len(out))
	}

	return out
}
