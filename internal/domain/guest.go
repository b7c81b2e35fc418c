package domain

import (
	"database/sql"
	"time"
)

// GuestStatus 客户跟进状态（封闭枚举）
type GuestStatus string

const (
	// GuestStatusNew 新建客户的初始状态，不出现在下拉选项中
	GuestStatusNew         GuestStatus = "Mới"
	GuestStatusClosed      GuestStatus = "Chốt"
	GuestStatusNearViewing GuestStatus = "Gần xem"
	GuestStatusNoShow      GuestStatus = "Không xem"
	GuestStatusNurturing   GuestStatus = "Đang chăm sóc"
	GuestStatusNotClosed   GuestStatus = "Không chốt"
)

// GuestStatuses 可选状态（下拉选项顺序）
var GuestStatuses = []GuestStatus{
	GuestStatusClosed,
	GuestStatusNearViewing,
	GuestStatusNoShow,
	GuestStatusNurturing,
	GuestStatusNotClosed,
}

// Valid 是否为合法的存储状态（含初始状态 Mới）
func (s GuestStatus) Valid() bool {
	if s == GuestStatusNew {
		return true
	}
	for _, v := range GuestStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Guest 客户（潜在租客）领域模型（对应 "Guest" 表）
type Guest struct {
	ID               int64          `db:"id"`
	CreatedAt        time.Time      `db:"created_at"`
	MarketerID       int64          `db:"marketer_id"`
	HouseID          int64          `db:"house_id"`
	ViewDate         sql.NullTime   `db:"view_date"`
	GuestName        string         `db:"guest_name"`
	GuestPhoneNumber string         `db:"guest_phone_number"`
	Status           GuestStatus    `db:"status"`
	AdminNote        sql.NullString `db:"admin_note"`
	ManagerNote      sql.NullString `db:"manager_note"`
}

// GuestDetail 客户 join 房源、经理、营销人员后的完整记录
type GuestDetail struct {
	Guest
	HouseAddress  string
	ManagerID     int64
	ManagerName   string
	MarketerName  string
	MarketerPhone string
}

// GuestPatch 客户部分更新，只包含实际变化的字段
type GuestPatch struct {
	MarketerID       *int64
	HouseID          *int64
	ViewDate         *sql.NullTime // Valid=false 表示清空
	GuestName        *string
	GuestPhoneNumber *string
	Status           *GuestStatus
	AdminNote        *string
	ManagerNote      *string
}

// IsEmpty 是否没有任何待更新字段
func (p GuestPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Columns 待更新的存储列名（固定顺序）
func (p GuestPatch) Columns() []string {
	cols := make([]string, 0, 8)
	if p.MarketerID != nil {
		cols = append(cols, "marketer_id")
	}
	if p.HouseID != nil {
		cols = append(cols, "house_id")
	}
	if p.ViewDate != nil {
		cols = append(cols, "view_date")
	}
	if p.GuestName != nil {
		cols = append(cols, "guest_name")
	}
	if p.GuestPhoneNumber != nil {
		cols = append(cols, "guest_phone_number")
	}
	if p.Status != nil {
		cols = append(cols, "status")
	}
	if p.AdminNote != nil {
		cols = append(cols, "admin_note")
	}
	if p.ManagerNote != nil {
		cols = append(cols, "manager_note")
	}
	return cols
}

// Apply 将补丁应用到记录（内存仓库使用）
func (p GuestPatch) Apply(g *Guest) {
	if p.MarketerID != nil {
		g.MarketerID = *p.MarketerID
	}
	if p.HouseID != nil {
		g.HouseID = *p.HouseID
	}
	if p.ViewDate != nil {
		g.ViewDate = *p.ViewDate
	}
	if p.GuestName != nil {
		g.GuestName = *p.GuestName
	}
	if p.GuestPhoneNumber != nil {
		g.GuestPhoneNumber = *p.GuestPhoneNumber
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.AdminNote != nil {
		g.AdminNote = NullableString(*p.AdminNote)
	}
	if p.ManagerNote != nil {
		g.ManagerNote = NullableString(*p.ManagerNote)
	}
}

// NullableString 空字符串存为 NULL
func NullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
