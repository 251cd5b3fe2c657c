package core

import "time"

// RecommendContext 承载用户/场景/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64
	Scene  string

	// Signal 是用户画像信号；nil 表示画像缺失，按冷启动处理
	Signal *UserSignal

	// Filters 是请求级过滤条件；nil 表示默认
	Filters *Filters

	// Now 固定一次编排的时间基准，保证打分/过滤内部一致；零值表示取当前时间
	Now time.Time

	// Params 请求级上下文参数（device_type、session_id、实时特征等）
	Params map[string]any

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、重度用户、实验桶
	Labels map[string]Label
}

// Clock 返回本次编排的时间基准。
func (rctx *RecommendContext) Clock() time.Time {
	if rctx == nil || rctx.Now.IsZero() {
		return time.Now()
	}
	return rctx.Now
}

// EffectiveFilters 返回请求的过滤条件，nil 时落到默认值。
func (rctx *RecommendContext) EffectiveFilters() *Filters {
	if rctx == nil || rctx.Filters == nil {
		return DefaultFilters()
	}
	return rctx.Filters
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (Label, bool) {
	if rctx.Labels == nil {
		return Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
