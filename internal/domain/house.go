package domain

import "time"

// House 房源领域模型（对应 "House" 表）
// manager_id 指向角色为 Quản lý 的账号，由服务层保证，数据库不约束
type House struct {
	ID        int64     `db:"id"`
	Address   string    `db:"address"`
	ManagerID int64     `db:"manager_id"`
	CreatedAt time.Time `db:"created_at"`
}

// HouseWithManager 房源及其经理（join Account）
type HouseWithManager struct {
	House
	ManagerName string // 经理不存在时为空
}

// HousePatch 房源部分更新
type HousePatch struct {
	Address   *string
	ManagerID *int64
}

// IsEmpty 是否没有任何待更新字段
func (p HousePatch) IsEmpty() bool {
	return p.Address == nil && p.ManagerID == nil
}
