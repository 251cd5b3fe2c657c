package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分类（对应处理策略）：
//   - INVALID_ARGUMENT：请求参数非法，任何工作开始前拒绝
//   - UNAVAILABLE：上游（Repository/Cache/Provider）不可用，按 fail-open 策略降级
//   - NOT_FOUND：资源不存在
//   - INTERNAL_ERROR：程序不变量被破坏，必须上抛，不允许静默污染响应
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_ARGUMENT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "recommend"）
	Cause   error  // 底层错误（可为 nil）
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As 链式检查
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 包装底层错误为领域错误
func WrapDomainError(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeUnavailable     = "UNAVAILABLE"       // 上游不可用
	ErrorCodeInvalidArgument = "INVALID_ARGUMENT"  // 请求参数非法
	ErrorCodeInternalError   = "INTERNAL_ERROR"    // 内部错误/不变量被破坏
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleRecall    = "recall"    // 召回模块
	ModuleRecommend = "recommend" // 编排模块
	ModuleProfile   = "profile"   // 画像模块
	ModuleCache     = "cache"     // 结果缓存模块
	ModuleBehavior  = "behavior"  // 行为追踪模块
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidArgument 检查错误是否为 INVALID_ARGUMENT
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidArgument
	}
	return false
}
