// Package recommend 是推荐编排层：把召回、打分、过滤、重排组装成完整的
// 推荐服务，并处理缓存、画像降级、行为埋点和分页。
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/newsrec/behavior"
	"github.com/rushteam/newsrec/cache"
	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/filter"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/rank"
	"github.com/rushteam/newsrec/recall"
	"github.com/rushteam/newsrec/rerank"
)

// AlgorithmVersion 标识当前打分逻辑版本，写进每页响应。
const AlgorithmVersion = "v1.0.0"

const (
	defaultPoolSize = 100
	maxPageSize     = 100
)

// Request 是一次推荐请求的参数。
type Request struct {
	// Page 从 1 开始
	Page int
	// PageSize ∈ [1,100]
	PageSize int

	Scene string

	// Filters 为 nil 时使用默认过滤条件
	Filters *core.Filters

	// Refresh 跳过缓存读取强制重算（结果仍会写缓存）
	Refresh bool
}

// Service 是推荐编排服务。除缓存外无状态，可并发使用。
//
// News 是唯一的硬依赖；其余依赖缺失时对应能力降级：
// 画像缺失按冷启动，行为仓库缺失关掉协同召回，缓存缺失每次实时计算。
type Service struct {
	News      core.NewsRepository
	Behaviors core.BehaviorRepository
	Profiles  core.SignalProvider
	Cache     *cache.RecommendationCache

	// Store 供热门榜、已读表等近线数据使用
	Store core.KeyValueStore

	// Collector 可选：曝光/反馈埋点
	Collector *behavior.Collector

	// PoolSize 候选池目标大小（分页前），默认 100
	PoolSize int

	// RecallTimeout 每个召回源的超时，零值用 fan-out 默认（3s）
	RecallTimeout time.Duration

	// FreshnessHorizon / FreshnessDecay 透传给打分节点
	FreshnessHorizon time.Duration
	FreshnessDecay   string

	// ExtraFilters 追加在内置过滤器之后（如 CEL 运营规则）
	ExtraFilters []filter.Filter

	Logger zerolog.Logger
}

// GetRecommendations 为用户生成一页个性化推荐。
//
// 链路：参数校验 → 缓存读取 → 画像获取（失败按冷启动）→ 并发召回 →
// 打分 → 过滤 → 多样性重排 → 分页 → 缓存写入。
//
// 只有新闻仓库整体不可用时才返回错误；画像、缓存、单个召回源的故障
// 都按约定降级。所有策略都无候选时返回合法的空页。
func (s *Service) GetRecommendations(ctx context.Context, userID int64, req Request) (*core.RecommendationPage, error) {
	if req.Page < 1 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: page must be >= 1")
	}
	if req.PageSize < 1 || req.PageSize > maxPageSize {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidArgument,
			"recommend: page_size must be in [1,100]")
	}

	filters := req.Filters
	if filters == nil {
		filters = core.DefaultFilters()
	}

	if !req.Refresh && s.Cache != nil {
		if page, ok := s.Cache.Get(ctx, userID, filters, req.Page); ok {
			return page, nil
		}
	}

	now := time.Now()
	rctx := &core.RecommendContext{
		UserID:  userID,
		Scene:   req.Scene,
		Signal:  s.lookupSignal(ctx, userID),
		Filters: filters,
		Now:     now,
	}

	pool, err := s.buildPipeline(rctx).Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	// 空候选池是合法结果（比如过滤条件太窄），返回空页；
	// 但要先探测新闻仓库，和整体不可用区分开
	if len(pool) == 0 {
		if err := s.probeNews(ctx); err != nil {
			return nil, err
		}
	}

	page := s.paginate(pool, req.Page, req.PageSize, uuid.NewString(), now)

	if s.Cache != nil {
		s.Cache.Set(ctx, userID, filters, req.Page, page)
	}
	s.trackImpressions(userID, page)

	return page, nil
}

// lookupSignal 获取用户画像；任何失败都降级为冷启动，只记日志。
func (s *Service) lookupSignal(ctx context.Context, userID int64) *core.UserSignal {
	if s.Profiles == nil || userID == 0 {
		return nil
	}
	signal, err := s.Profiles.GetSignal(ctx, userID)
	if err != nil {
		s.Logger.Warn().Err(err).Int64("user_id", userID).
			Msg("profile lookup failed, falling back to cold start")
		return nil
	}
	return signal
}

func (s *Service) poolSize() int {
	if s.PoolSize > 0 {
		return s.PoolSize
	}
	return defaultPoolSize
}

func (s *Service) buildPipeline(rctx *core.RecommendContext) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.Fanout{
			Entries: s.mixEntries(rctx),
			Target:  s.poolSize(),
			Timeout: s.RecallTimeout,
			Logger:  s.Logger,
		},
		&rank.ScoreNode{Horizon: s.FreshnessHorizon, Decay: s.FreshnessDecay},
		&filter.Node{Filters: s.filters()},
	}

	// 请求关闭多样性时也要保证分数降序，MMR 纯排序模式兼任
	nodes = append(nodes, &rerank.MMR{
		ScoreOrderOnly: !rctx.EffectiveFilters().Diversify,
	})

	return &pipeline.Pipeline{Nodes: nodes}
}

func (s *Service) filters() []filter.Filter {
	fs := []filter.Filter{
		&filter.Quality{},
		&filter.BlockedSource{},
		&filter.Flags{},
	}
	if s.Store != nil {
		fs = append(fs, &filter.Exposed{Store: s.Store})
	}
	return append(fs, s.ExtraFilters...)
}

// probeNews 区分"没有可推荐的内容"和"新闻仓库整体不可用"：
// 前者是合法的空页，后者是编排层唯一上抛的故障。
func (s *Service) probeNews(ctx context.Context) error {
	if _, err := s.News.Latest(ctx, 1); err != nil {
		return core.WrapDomainError(core.ModuleRecommend, core.ErrorCodeUnavailable,
			"recommend: news repository unreachable", err)
	}
	return nil
}

// paginate 从排好序的候选池切出一页并组装响应。
func (s *Service) paginate(pool []*core.Candidate, page, pageSize int, recommendationID string, now time.Time) *core.RecommendationPage {
	total := len(pool)
	start := (page - 1) * pageSize
	if start >= total {
		p := core.EmptyPage(page, pageSize, recommendationID, AlgorithmVersion, now)
		p.Total = total
		return p
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]*core.RankedNews, 0, end-start)
	for i, c := range pool[start:end] {
		items = append(items, &core.RankedNews{
			NewsItem: c.News,
			Position: i,
			Score:    c.Score,
			Reason:   c.Reason,
			Strategy: c.Strategy,
		})
	}

	return &core.RecommendationPage{
		Items:            items,
		Total:            total,
		Page:             page,
		PageSize:         pageSize,
		RecommendationID: recommendationID,
		AlgorithmVersion: AlgorithmVersion,
		GeneratedAt:      now,
		HasNext:          total > page*pageSize,
	}
}

// trackImpressions 异步记录本页曝光，用于后续归因与协同召回。
func (s *Service) trackImpressions(userID int64, page *core.RecommendationPage) {
	if s.Collector == nil || page == nil {
		return
	}
	for _, item := range page.Items {
		s.Collector.Track(&core.Behavior{
			UserID:           userID,
			NewsID:           item.ID,
			Type:             core.BehaviorImpression,
			RecommendationID: page.RecommendationID,
			Position:         item.Position,
			Timestamp:        page.GeneratedAt,
		})
	}
}
