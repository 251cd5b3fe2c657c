package profile

import (
	"context"
	"encoding/json"
	"strconv"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/newsrec/core"
)

// Feast 特征引用（user_profile 特征视图）
const (
	featConfidence  = "user_profile:confidence"
	featDiversity   = "user_profile:diversity_preference"
	featNovelty     = "user_profile:novelty_preference"
	featQuality     = "user_profile:quality_threshold"
	featCategories  = "user_profile:preferred_categories"
	featTags        = "user_profile:preferred_tags"
	featBlockedList = "user_profile:blocked_sources"
	entityUserID    = "user_id"
)

// FeastProvider 从 Feast Feature Server 在线获取用户画像特征。
//
// 偏好类的复合特征（类目/标签权重、屏蔽来源）以 JSON 字符串形式存在
// 特征仓库中，这里解析为结构化字段。
type FeastProvider struct {
	Client  *feastsdk.GrpcClient
	Project string

	// ColdStartConfidence <=0 时使用 DefaultColdStartConfidence
	ColdStartConfidence float64
}

var _ core.SignalProvider = (*FeastProvider)(nil)

// NewFeastProvider 连接 Feast Feature Server，port 为 0 时用默认 gRPC 端口 6565。
func NewFeastProvider(host string, port int, project string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeUnavailable,
			"profile: feast connect failed", err)
	}
	return &FeastProvider{Client: client, Project: project}, nil
}

// GetSignal 在线拉取画像特征并组装 UserSignal。
// 特征仓库里没有该用户时返回 (nil, nil)。
func (p *FeastProvider) GetSignal(ctx context.Context, userID int64) (*core.UserSignal, error) {
	if p.Client == nil || userID == 0 {
		return nil, nil
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{
			featConfidence, featDiversity, featNovelty, featQuality,
			featCategories, featTags, featBlockedList,
		},
		Entities: []feastsdk.Row{
			{entityUserID: feastsdk.Int64Val(userID)},
		},
		Project: p.Project,
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeUnavailable,
			"profile: feast request failed", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]

	confidence := doubleOf(row[featConfidence])
	if confidence == 0 && stringOf(row[featConfidence]) == "" {
		// 该用户没有任何画像特征
		return nil, nil
	}

	threshold := p.ColdStartConfidence
	if threshold <= 0 {
		threshold = DefaultColdStartConfidence
	}

	signal := &core.UserSignal{
		UserID:              userID,
		Warmth:              WarmthOf(confidence, threshold),
		DiversityPreference: doubleOf(row[featDiversity]),
		NoveltyPreference:   doubleOf(row[featNovelty]),
		QualityThreshold:    doubleOf(row[featQuality]),
		Confidence:          confidence,
	}

	if raw := stringOf(row[featCategories]); raw != "" {
		signal.PreferredCategories = parseCategoryWeights(raw)
	}
	if raw := stringOf(row[featTags]); raw != "" {
		var tags map[string]float64
		if json.Unmarshal([]byte(raw), &tags) == nil {
			signal.PreferredTags = tags
		}
	}
	if raw := stringOf(row[featBlockedList]); raw != "" {
		var blocked []string
		if json.Unmarshal([]byte(raw), &blocked) == nil {
			signal.BlockedSources = blocked
		}
	}

	return signal, nil
}

// parseCategoryWeights 解析 JSON 里的类目权重；JSON key 只能是字符串，
// 这里把 "12" 这样的 key 转回类目 ID。
func parseCategoryWeights(raw string) map[int64]float64 {
	var byName map[string]float64
	if json.Unmarshal([]byte(raw), &byName) != nil {
		return nil
	}
	out := make(map[int64]float64, len(byName))
	for k, w := range byName {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		out[id] = w
	}
	return out
}

func doubleOf(v *feasttypes.Value) float64 {
	if v == nil {
		return 0
	}
	switch {
	case v.GetDoubleVal() != 0:
		return v.GetDoubleVal()
	case v.GetFloatVal() != 0:
		return float64(v.GetFloatVal())
	case v.GetInt64Val() != 0:
		return float64(v.GetInt64Val())
	case v.GetInt32Val() != 0:
		return float64(v.GetInt32Val())
	}
	return v.GetDoubleVal()
}

func stringOf(v *feasttypes.Value) string {
	if v == nil {
		return ""
	}
	if s := v.GetStringVal(); s != "" {
		return s
	}
	if b := v.GetBytesVal(); len(b) > 0 {
		return string(b)
	}
	return ""
}
