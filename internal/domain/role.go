package domain

import "strings"

// Role 账号角色（数据库中保存越南语原文）
type Role string

const (
	RoleAdmin    Role = "Quản trị viên"
	RoleManager  Role = "Quản lý"
	RoleMarketer Role = "Marketing"
)

// Roles 账号管理下拉选项顺序
var Roles = []Role{RoleAdmin, RoleMarketer, RoleManager}

// SelfRegisterRoles 自助注册可选角色（管理员只能由管理员创建）
var SelfRegisterRoles = []Role{RoleManager, RoleMarketer}

// ParseRole 大小写不敏感地解析角色
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }
