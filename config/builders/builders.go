// Package builders 注册内置 Node 的配置构建器。
//
// 召回源依赖外部仓库（新闻库、行为库、KV 存储），无法从纯配置构造，
// 需要在加载配置前调用 Inject 注入。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/newsrec/config"
	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/filter"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/pkg/conv"
	"github.com/rushteam/newsrec/rank"
	"github.com/rushteam/newsrec/recall"
	"github.com/rushteam/newsrec/rerank"
)

// Deps 是配置驱动构建 Pipeline 时注入的外部依赖。
type Deps struct {
	News      core.NewsRepository
	Behaviors core.BehaviorRepository
	Store     core.KeyValueStore
}

var deps Deps

// Inject 注入仓库依赖，必须在 BuildPipeline 之前调用。
func Inject(d Deps) {
	deps = d
}

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("rank.score", BuildScoreNode)
	config.Register("rerank.mmr", BuildMMRNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("filter", BuildFilterNode)
}

// BuildFanoutNode 构建召回 fan-out。配置示例：
//
//	type: recall.fanout
//	config:
//	  target: 100
//	  timeout: 3
//	  sources:
//	    - { strategy: hot, weight: 0.6 }
//	    - { strategy: featured, weight: 0.2 }
//	    - { strategy: fresh, weight: 0.2 }
func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	entries := make([]recall.Entry, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		strategy := conv.ConfigGet(sourceMap, "strategy", "")
		weight := conv.ConfigGetFloat64(sourceMap, "weight", 0)

		src, err := buildSource(strategy, sourceMap)
		if err != nil {
			return nil, err
		}
		entries = append(entries, recall.Entry{Source: src, Weight: weight})
	}

	fanout := &recall.Fanout{
		Entries: entries,
		Target:  int(conv.ConfigGetInt64(cfg, "target", 100)),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "over_fetch", 0); n > 0 {
		fanout.OverFetch = int(n)
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func buildSource(strategy string, cfg map[string]interface{}) (recall.Source, error) {
	switch strategy {
	case recall.StrategyHot:
		return &recall.Hot{
			Repo:      deps.News,
			Store:     deps.Store,
			KeyPrefix: conv.ConfigGet(cfg, "key_prefix", ""),
			Window:    time.Duration(conv.ConfigGetInt64(cfg, "window_hours", 0)) * time.Hour,
			CacheTTL:  int(conv.ConfigGetInt64(cfg, "cache_ttl", 0)),
		}, nil
	case recall.StrategyFeatured:
		return &recall.Featured{Repo: deps.News}, nil
	case recall.StrategyFresh:
		return &recall.Fresh{Repo: deps.News}, nil
	case recall.StrategyContent:
		return &recall.ContentBased{
			Repo:          deps.News,
			TopCategories: int(conv.ConfigGetInt64(cfg, "top_categories", 0)),
			TagWeight:     conv.ConfigGetFloat64(cfg, "tag_weight", 0),
		}, nil
	case recall.StrategyCollaborative:
		return &recall.Collaborative{
			Behaviors:        deps.Behaviors,
			Repo:             deps.News,
			Window:           time.Duration(conv.ConfigGetInt64(cfg, "window_days", 0)) * 24 * time.Hour,
			TopKSimilarUsers: int(conv.ConfigGetInt64(cfg, "top_k_similar_users", 0)),
		}, nil
	case recall.StrategyDiscovery:
		return &recall.Discovery{
			Repo:       deps.News,
			MinQuality: conv.ConfigGetFloat64(cfg, "min_quality", 0),
		}, nil
	}
	return nil, fmt.Errorf("unknown recall strategy: %s", strategy)
}

// BuildScoreNode 构建打分节点。配置项：horizon_days、decay（linear/exponential）。
func BuildScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rank.ScoreNode{
		Decay: conv.ConfigGet(cfg, "decay", ""),
	}
	if days := conv.ConfigGetInt64(cfg, "horizon_days", 0); days > 0 {
		node.Horizon = time.Duration(days) * 24 * time.Hour
	}
	return node, nil
}

// BuildMMRNode 构建多样性重排节点。配置项：category_penalty、source_penalty。
func BuildMMRNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.MMR{
		CategoryPenalty: conv.ConfigGetFloat64(cfg, "category_penalty", 0),
		SourcePenalty:   conv.ConfigGetFloat64(cfg, "source_penalty", 0),
	}, nil
}

// BuildTopNNode 构建 Top-N 截断节点。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}
	return &rerank.TopN{N: int(n)}, nil
}

// BuildFilterNode 构建过滤节点。配置示例：
//
//	type: filter
//	config:
//	  filters:
//	    - { type: quality }
//	    - { type: blocked_source }
//	    - { type: flags }
//	    - { type: exposed, key_prefix: "user:read" }
//	    - { type: rule, expr: 'news.quality_score < 0.2' }
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "quality":
			filters = append(filters, &filter.Quality{})
		case "blocked_source":
			filters = append(filters, &filter.BlockedSource{})
		case "flags":
			filters = append(filters, &filter.Flags{})
		case "exposed":
			filters = append(filters, &filter.Exposed{
				Store:     deps.Store,
				KeyPrefix: conv.ConfigGet(filterMap, "key_prefix", ""),
			})
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, filter.NewRule(expr))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.Node{Filters: filters}, nil
}
