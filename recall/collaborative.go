package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/newsrec/core"
)

// Collaborative 是基于共同互动的协同召回源（简化版 User-CF）。
//
// 核心思想："和我读过同样新闻的人，还在读什么"
//
// 算法流程：
//  1. 取目标用户时间窗口内的正向互动（read/like/bookmark/share）
//  2. 对每条互动过的新闻，找同样互动过它的其他用户，
//     按 目标互动权重 × 对方互动权重 累积用户相似度
//  3. 取 TopK 相似用户，收集他们互动过、而目标用户没见过的新闻，
//     按 相似度 × 互动权重 累积新闻得分
//  4. 按得分降序取 TopN
//
// 用户无行为历史时返回空；依赖（Behavior Repository）不可用时错误由
// fan-out 吞掉并记日志，不中断其他召回源。
type Collaborative struct {
	Behaviors core.BehaviorRepository
	Repo      core.NewsRepository

	// Window 行为时间窗口，默认 30 天
	Window time.Duration

	// TopKSimilarUsers 参与投票的相似用户数量，默认 20
	TopKSimilarUsers int
}

func (r *Collaborative) Name() string { return StrategyCollaborative }

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Candidate, error) {
	if r.Behaviors == nil || r.Repo == nil || rctx == nil || rctx.UserID == 0 || limit <= 0 {
		return nil, nil
	}

	window := r.Window
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}

	// 1. 目标用户的正向互动
	seen, err := r.Behaviors.UserEngagements(ctx, rctx.UserID, window)
	if err != nil {
		return nil, err
	}
	if len(seen) == 0 {
		return nil, nil
	}

	// 2. 通过共同互动累积用户相似度
	similarity := make(map[int64]float64)
	for newsID, myWeight := range seen {
		engagers, err := r.Behaviors.NewsEngagers(ctx, newsID, window)
		if err != nil {
			continue
		}
		for userID, theirWeight := range engagers {
			if userID == rctx.UserID {
				continue
			}
			similarity[userID] += myWeight * theirWeight
		}
	}
	if len(similarity) == 0 {
		return nil, nil
	}

	// 3. TopK 相似用户
	type simUser struct {
		userID int64
		sim    float64
	}
	simUsers := make([]simUser, 0, len(similarity))
	for userID, sim := range similarity {
		simUsers = append(simUsers, simUser{userID: userID, sim: sim})
	}
	sort.Slice(simUsers, func(i, j int) bool {
		if simUsers[i].sim != simUsers[j].sim {
			return simUsers[i].sim > simUsers[j].sim
		}
		return simUsers[i].userID < simUsers[j].userID
	})
	topK := r.TopKSimilarUsers
	if topK <= 0 {
		topK = 20
	}
	if len(simUsers) > topK {
		simUsers = simUsers[:topK]
	}

	// 4. 相似用户投票，跳过目标用户已见过的新闻
	newsScores := make(map[int64]float64)
	for _, su := range simUsers {
		theirNews, err := r.Behaviors.UserEngagements(ctx, su.userID, window)
		if err != nil {
			continue
		}
		for newsID, weight := range theirNews {
			if _, ok := seen[newsID]; ok {
				continue
			}
			newsScores[newsID] += su.sim * weight
		}
	}
	if len(newsScores) == 0 {
		return nil, nil
	}

	type scoredNews struct {
		newsID int64
		score  float64
	}
	ranked := make([]scoredNews, 0, len(newsScores))
	for newsID, score := range newsScores {
		ranked = append(ranked, scoredNews{newsID: newsID, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].newsID < ranked[j].newsID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]int64, 0, len(ranked))
	for _, s := range ranked {
		ids = append(ids, s.newsID)
	}
	items, err := r.Repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(items))
	for _, it := range items {
		c := core.NewCandidate(it, StrategyCollaborative, 0)
		c.Reason = "Readers like you also read this"
		c.PutLabel("recall_source", core.Label{Value: StrategyCollaborative, Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
