package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 推荐链路的四类失败必须可区分（调用方据此映射状态码/重试策略）：
//   - NOT_READY          模型快照尚未加载
//   - NOT_FOUND          影片不在目录/嵌入矩阵中
//   - INVALID_INPUT      请求参数越界
//   - NO_CONTENT_SIGNAL  温用户的高分影片全部缺少嵌入行（数据不一致）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NOT_READY"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "service"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotReady        = "NOT_READY"         // 模型资源未就绪
	ErrorCodeNotFound        = "NOT_FOUND"         // 资源不存在
	ErrorCodeInvalidInput    = "INVALID_INPUT"     // 输入无效
	ErrorCodeNoContentSignal = "NO_CONTENT_SIGNAL" // 无内容信号可用
	ErrorCodeNotSupported    = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInternalError   = "INTERNAL_ERROR"    // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 影片目录模块
	ModuleModel   = "model"   // 模型快照模块
	ModuleRecall  = "recall"  // 召回/打分模块
	ModuleService = "service" // 服务门面模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotReady 检查错误是否为 NOT_READY。
func IsNotReady(err error) bool { return hasCode(err, ErrorCodeNotReady) }

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsNoContentSignal 检查错误是否为 NO_CONTENT_SIGNAL。
func IsNoContentSignal(err error) bool { return hasCode(err, ErrorCodeNoContentSignal) }
