package domain

import "time"

// Account 账号领域模型（对应 "Account" 表）
// phone_number 唯一，登录即按手机号查找
type Account struct {
	ID          int64     `db:"id"`
	FullName    string    `db:"full_name"`
	PhoneNumber string    `db:"phone_number"`
	Role        Role      `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
}

// AccountPatch 账号部分更新，nil 字段不修改
type AccountPatch struct {
	FullName    *string
	PhoneNumber *string
	Role        *Role
}

// IsEmpty 是否没有任何待更新字段
func (p AccountPatch) IsEmpty() bool {
	return p.FullName == nil && p.PhoneNumber == nil && p.Role == nil
}
