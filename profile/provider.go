// Package profile 提供用户画像信号的获取实现。
//
// 画像由外部系统产出（行为分析离线任务、特征平台），本包只负责读取并
// 转换为 core.UserSignal。所有 Provider 都遵守同一个约定：画像不存在
// 返回 (nil, nil)，由编排层按冷启动兜底。
package profile

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/newsrec/core"
)

// DefaultColdStartConfidence 是冷启动判定的默认置信度阈值。
// 画像置信度低于该值的用户按冷启动处理。
const DefaultColdStartConfidence = 0.3

// StoreProvider 从 KV 存储读取用户画像（JSON 编码的 UserSignal）。
//
// key 为 {KeyPrefix}:{userID}，由画像离线任务写入。
type StoreProvider struct {
	Store core.Store

	// KeyPrefix 默认 "profile:user"
	KeyPrefix string

	// ColdStartConfidence <=0 时使用 DefaultColdStartConfidence
	ColdStartConfidence float64
}

var _ core.SignalProvider = (*StoreProvider)(nil)

func (p *StoreProvider) key(userID int64) string {
	prefix := p.KeyPrefix
	if prefix == "" {
		prefix = "profile:user"
	}
	return prefix + ":" + strconv.FormatInt(userID, 10)
}

func (p *StoreProvider) threshold() float64 {
	if p.ColdStartConfidence > 0 {
		return p.ColdStartConfidence
	}
	return DefaultColdStartConfidence
}

// GetSignal 读取并解析画像。key 不存在返回 (nil, nil)。
func (p *StoreProvider) GetSignal(ctx context.Context, userID int64) (*core.UserSignal, error) {
	if p.Store == nil || userID == 0 {
		return nil, nil
	}

	raw, err := p.Store.Get(ctx, p.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeUnavailable,
			"profile: store read failed", err)
	}

	var signal core.UserSignal
	if err := json.Unmarshal(raw, &signal); err != nil {
		return nil, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeInternalError,
			"profile: malformed signal", err)
	}

	signal.UserID = userID
	signal.Warmth = WarmthOf(signal.Confidence, p.threshold())
	return &signal, nil
}

// WarmthOf 由画像置信度推导冷热分类。
func WarmthOf(confidence, threshold float64) core.Warmth {
	if confidence < threshold {
		return core.WarmthCold
	}
	return core.WarmthWarm
}
