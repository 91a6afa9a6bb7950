package errors

import "strings"

// ValidationErrors 一次请求中收集到的全部校验 / 不存在 / 跨课表引用错误
// 调用方通过 errors.As 取出 Messages 原样返回给客户端
type ValidationErrors struct {
	Messages []string
}

// Add 追加一条错误信息
func (e *ValidationErrors) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// HasAny 是否收集到任何错误
func (e *ValidationErrors) HasAny() bool {
	return len(e.Messages) > 0
}

// OrNil 无错误时返回 nil，避免 typed-nil 陷阱
func (e *ValidationErrors) OrNil() error {
	if !e.HasAny() {
		return nil
	}
	return e
}

func (e *ValidationErrors) Error() string {
	return strings.Join(e.Messages, "; ")
}
