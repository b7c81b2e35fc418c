package reconcile

import (
	"errors"
	"fmt"

	"bekind-internal/internal/domain"
)

var (
	// ErrUnresolved 外键展示名在映射中找不到
	ErrUnresolved = errors.New("label not found in lookup map")
	// ErrRequired 必填字段被清空
	ErrRequired = errors.New("required field cleared")
	// ErrInvalidValue 字段值不合法（状态枚举、日期格式）
	ErrInvalidValue = errors.New("invalid field value")
)

// FieldError 带字段信息的校验错误，整次编辑被拒绝
type FieldError struct {
	Field domain.GuestField
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
