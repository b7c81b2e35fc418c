package repository

import (
	"errors"
)

var (
	// ErrNotFound 记录不存在（查询无结果或更新/删除影响 0 行）
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 唯一约束冲突（账号手机号）
	ErrDuplicate = errors.New("duplicate record")
)

// Store 三个实体仓库的集合，按 GATEWAY 配置选择实现
type Store struct {
	Accounts AccountsRepository
	Houses   HousesRepository
	Guests   GuestsRepository
}

type scanner interface{ Scan(...any) error }
