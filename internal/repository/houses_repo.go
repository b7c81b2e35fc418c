package repository

import (
	"context"

	"bekind-internal/internal/domain"
)

// HousesRepository 房源Repository接口
// 查询结果 join 经理账号（经理缺失时 ManagerName 为空）
type HousesRepository interface {
	ListHouses(ctx context.Context, filter HousesFilter) ([]domain.HouseWithManager, error)
	GetHouse(ctx context.Context, id int64) (*domain.HouseWithManager, error)

	CreateHouse(ctx context.Context, house *domain.House) (*domain.House, error)
	UpdateHouse(ctx context.Context, id int64, patch domain.HousePatch) (*domain.House, error)
	DeleteHouse(ctx context.Context, id int64) error
}

// HousesFilter 房源查询过滤器
type HousesFilter struct {
	ManagerID *int64 // 可选，只查某个经理名下的房源
}
