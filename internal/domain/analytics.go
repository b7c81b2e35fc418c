package domain

// StatusCount 分组统计原始行（owner 为经理或营销人员）
type StatusCount struct {
	OwnerID   int64
	OwnerName string
	Status    GuestStatus
	Count     int
}

// AnalyticsStatuses 统计表固定状态列
var AnalyticsStatuses = append([]GuestStatus{GuestStatusNew}, GuestStatuses...)
