// Package policy 角色权限：字段级编辑权限、客户可见范围、各实体的增删改能力。
// 所有函数均为纯函数，UI 层的隐藏/禁用只是提示，服务层必须再次调用这里校验。
package policy

import "bekind-internal/internal/domain"

// Permission 字段权限
type Permission int

const (
	Hidden Permission = iota
	ReadOnly
	Editable
)

func (p Permission) String() string {
	switch p {
	case ReadOnly:
		return "read_only"
	case Editable:
		return "editable"
	default:
		return "hidden"
	}
}

// guestMatrix 角色 × 字段权限表，未列出的组合为 Hidden
var guestMatrix = map[domain.Role]map[domain.GuestField]Permission{
	domain.RoleAdmin: {
		domain.FieldGuestName:        Editable,
		domain.FieldGuestPhoneNumber: Editable,
		domain.FieldViewDate:         Editable,
		domain.FieldStatus:           Editable,
		domain.FieldHouseAddress:     Editable,
		domain.FieldManagerName:      ReadOnly,
		domain.FieldMarketerName:     Editable,
		domain.FieldAdminNote:        Editable,
		domain.FieldManagerNote:      Editable,
		domain.FieldCreatedAt:        ReadOnly,
	},
	domain.RoleManager: {
		domain.FieldGuestName:        Editable,
		domain.FieldGuestPhoneNumber: Editable,
		domain.FieldViewDate:         Editable,
		domain.FieldStatus:           Editable,
		domain.FieldHouseAddress:     Editable, // 仅限自己名下的房源
		domain.FieldManagerName:      ReadOnly,
		domain.FieldMarketerName:     Editable,
		domain.FieldAdminNote:        ReadOnly,
		domain.FieldManagerNote:      Editable,
		domain.FieldCreatedAt:        ReadOnly,
	},
	domain.RoleMarketer: {
		domain.FieldGuestName:        Editable,
		domain.FieldGuestPhoneNumber: Editable,
		domain.FieldViewDate:         Editable,
		domain.FieldStatus:           Editable,
		domain.FieldHouseAddress:     Editable,
		domain.FieldManagerName:      ReadOnly,
		domain.FieldMarketerName:     ReadOnly,
		domain.FieldAdminNote:        ReadOnly,
		domain.FieldManagerNote:      ReadOnly,
	},
}

// FieldPermission 查询角色对客户字段的权限
func FieldPermission(role domain.Role, field domain.GuestField) Permission {
	fields, ok := guestMatrix[role]
	if !ok {
		return Hidden
	}
	return fields[field]
}

// IsEditable 角色是否可编辑该字段
func IsEditable(role domain.Role, field domain.GuestField) bool {
	return FieldPermission(role, field) == Editable
}

// EditableFields 角色可编辑的字段（表格列顺序）
func EditableFields(role domain.Role) []domain.GuestField {
	return fieldsWith(role, Editable)
}

// ReadOnlyFields 角色只读的字段
func ReadOnlyFields(role domain.Role) []domain.GuestField {
	return fieldsWith(role, ReadOnly)
}

// HiddenFields 角色不可见的字段
func HiddenFields(role domain.Role) []domain.GuestField {
	return fieldsWith(role, Hidden)
}

// VisibleFields 角色可见（只读或可编辑）的字段
func VisibleFields(role domain.Role) []domain.GuestField {
	out := make([]domain.GuestField, 0, len(domain.GuestFields))
	for _, f := range domain.GuestFields {
		if FieldPermission(role, f) != Hidden {
			out = append(out, f)
		}
	}
	return out
}

func fieldsWith(role domain.Role, p Permission) []domain.GuestField {
	out := make([]domain.GuestField, 0, len(domain.GuestFields))
	for _, f := range domain.GuestFields {
		if FieldPermission(role, f) == p {
			out = append(out, f)
		}
	}
	return out
}

// CanCreateGuest 所有角色都可新增客户
func CanCreateGuest(role domain.Role) bool {
	return role.Valid()
}

// CanDeleteGuest 管理员和经理可删除客户，营销人员不可
func CanDeleteGuest(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager
}

// CanReassignMarketer 只有管理员可以修改客户的 marketer_id
func CanReassignMarketer(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanChooseMarketer 新增客户时是否可指定营销人员（营销人员只能是自己）
func CanChooseMarketer(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager
}

// CanManageAccounts 账号管理仅限管理员
func CanManageAccounts(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanManageHouses 房源管理仅限管理员
func CanManageHouses(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanViewAnalytics 统计报表仅限管理员
func CanViewAnalytics(role domain.Role) bool {
	return role == domain.RoleAdmin
}
