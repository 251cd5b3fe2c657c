package core

// Candidate 是推荐链路中的统一承载结构：新闻快照、召回来源、分数、标签。
// 只在一次编排内存活：召回产生、打分消费、重排输出，组装响应后即丢弃。
type Candidate struct {
	News *NewsItem

	// Strategy 是产生该候选的召回策略名（hot / featured / fresh / content / collaborative / discovery）
	Strategy string

	// StrategyWeight 是策略在本次混合中的配比权重，打分时作为基础分
	StrategyWeight float64

	// Score 是打分阶段计算出的最终推荐分，排序决策依据
	Score float64

	// Reason 是可选的人类可读推荐理由，透传给前端
	Reason string

	// Labels 用于解释与策略驱动；同名 key 按默认 Merge 规则累积
	Labels map[string]Label
}

func NewCandidate(news *NewsItem, strategy string, weight float64) *Candidate {
	return &Candidate{
		News:           news,
		Strategy:       strategy,
		StrategyWeight: weight,
		Labels:         make(map[string]Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (c *Candidate) GetLabel(key string) (Label, bool) {
	if c.Labels == nil {
		return Label{}, false
	}
	lbl, ok := c.Labels[key]
	return lbl, ok
}
