package repository

import (
	"context"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
)

// GuestsRepository 客户Repository接口
// 查询返回 join 房源、经理、营销人员后的 GuestDetail；写入只接受存储列
type GuestsRepository interface {
	// ListGuests 按可见范围过滤，filter.Empty() 时直接返回空列表
	ListGuests(ctx context.Context, filter policy.GuestFilter) ([]domain.GuestDetail, error)
	GetGuest(ctx context.Context, id int64) (*domain.GuestDetail, error)

	CreateGuest(ctx context.Context, guest *domain.Guest) (*domain.Guest, error)
	// UpdateGuest 单行原子更新，patch 为空时返回错误
	UpdateGuest(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	DeleteGuest(ctx context.Context, id int64) error

	// 统计：created_at ∈ [start, end]，按经理（经由房源）/营销人员 + 状态分组
	CountByManagerAndStatus(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error)
	CountByMarketerAndStatus(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error)
}
