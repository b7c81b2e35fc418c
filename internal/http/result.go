package httpapi

// Result 响应信封 {code, type, message, result}
// - code: 2000 成功，-1 失败，60401 会话失效
// - message: 面向用户的越南语提示
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultSessionExpired 配合 HTTP 401 使用
	ResultSessionExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

// OkMessage 成功并带业务提示（例如 "Không có thay đổi nào"）
func OkMessage[T any](message string, result T) Result[T] {
	if message == "" {
		message = "ok"
	}
	return Result[T]{Code: ResultSuccess, Type: "success", Message: message, Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// Expired 会话不存在或已过期
func Expired(message string) Result[any] {
	return Result[any]{Code: ResultSessionExpired, Type: "error", Message: message, Result: nil}
}
