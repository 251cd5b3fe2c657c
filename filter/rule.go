package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/newsrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("news", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是运营规则过滤器，使用 CEL (Common Expression Language) 表达式
// 判定候选是否剔除。表达式返回 true 表示剔除。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：news.source == "tabloid_daily"
//   - 数值：news.quality_score < 0.3
//   - 逻辑：news.category_id == 7 && news.quality_score < 0.5
//   - 标签：label.recall_strategy.contains("hot")
//   - 存在性：label.filtered != null
//
// 表达式在首次使用时编译并缓存，Rule 可被多个 goroutine 并发使用。
type Rule struct {
	// Expr 是 CEL 表达式；为空时不过滤任何候选。
	Expr string

	once sync.Once
	prg  cel.Program
	err  error
}

func NewRule(expr string) *Rule {
	return &Rule{Expr: expr}
}

func (f *Rule) Name() string {
	return "filter.rule"
}

func (f *Rule) compile() (cel.Program, error) {
	f.once.Do(func() {
		env, err := getCELEnv()
		if err != nil {
			f.err = err
			return
		}
		ast, issues := env.Compile(f.Expr)
		if issues != nil && issues.Err() != nil {
			f.err = fmt.Errorf("compile error: %v", issues.Err())
			return
		}
		f.prg, f.err = env.Program(ast)
	})
	return f.prg, f.err
}

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if f.Expr == "" || c == nil || c.News == nil {
		return false, nil
	}

	prg, err := f.compile()
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(buildInput(rctx, c))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错；
		// 表达式应该用 label.key != null 检查存在性
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(rctx *core.RecommendContext, c *core.Candidate) map[string]interface{} {
	// label.xxx 直接访问标签值
	labels := make(map[string]interface{}, len(c.Labels))
	for k, v := range c.Labels {
		labels[k] = v.Value
	}

	news := map[string]interface{}{
		"id":              c.News.ID,
		"source":          c.News.Source,
		"category_id":     c.News.CategoryID,
		"quality_score":   c.News.QualityScore,
		"popularity":      c.News.PopularityScore,
		"trending":        c.News.TrendingScore,
		"is_breaking":     c.News.IsBreaking,
		"is_featured":     c.News.IsFeatured,
		"score":           c.Score,
		"recall_strategy": c.Strategy,
	}

	ctxMap := map[string]interface{}{}
	if rctx != nil {
		ctxMap["user_id"] = rctx.UserID
		ctxMap["scene"] = rctx.Scene
		ctxMap["params"] = rctx.Params
	}

	return map[string]interface{}{
		"news":  news,
		"label": labels,
		"rctx":  ctxMap,
	}
}
